package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
)

func row(kind, note string, total int64, ts time.Time) domain.LedgerRow {
	return domain.LedgerRow{
		SourceKind: kind,
		Note:       note,
		Identifier: HashIdentifier(note),
		Timestamp:  ts,
		TotalUSDT:  decimal.NewFromInt(total),
		Details:    json.RawMessage(`{"k":"v"}`),
	}
}

func TestHashIdentifier(t *testing.T) {
	a := HashIdentifier("api-key-1")
	b := HashIdentifier("api-key-1")
	c := HashIdentifier("api-key-2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
	assert.Equal(t, "5e7bd0afcf2a7316", a)
}

func TestWALStoreAppendAndRows(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	require.NoError(t, store.Append(row(domain.SourceBinance, "main", 100, now)))
	require.NoError(t, store.Append(row(domain.SourceOKXWallet, "main-wallet", 250, now)))

	rows, err := store.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.SourceBinance, rows[0].SourceKind)
	assert.True(t, rows[0].TotalUSDT.Equal(decimal.NewFromInt(100)))
	assert.False(t, rows[0].CreatedAt.IsZero())
	assert.Equal(t, domain.SourceOKXWallet, rows[1].SourceKind)
}

func TestWALStoreRejectsRowWithoutKind(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Append(domain.LedgerRow{Note: "x"}))
}

func TestFilter(t *testing.T) {
	now := time.Now()
	rows := []domain.LedgerRow{
		row(domain.SourceBinance, "main", 100, now.Add(-48*time.Hour)),
		row(domain.SourceBinance, "main", 200, now.Add(-1*time.Hour)),
		row(domain.SourceBinance, "other", 300, now.Add(-30*time.Minute)),
	}

	t.Run("trailing window", func(t *testing.T) {
		got := Filter(rows, "", now.Add(-24*time.Hour))
		require.Len(t, got, 2)
		assert.True(t, got[0].Timestamp.Before(got[1].Timestamp), "oldest first")
	})

	t.Run("by note", func(t *testing.T) {
		got := Filter(rows, "main", now.Add(-24*time.Hour))
		require.Len(t, got, 1)
		assert.True(t, got[0].TotalUSDT.Equal(decimal.NewFromInt(200)))
	})
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	rows := []domain.LedgerRow{
		row(domain.SourceBinance, "main", 100, now.Add(-2*time.Hour)),
		row(domain.SourceBinance, "main", 300, now.Add(-1*time.Hour)),
		row(domain.SourceOKXWallet, "main-wallet", 50, now),
	}

	summaries := Summarize(rows)
	require.Len(t, summaries, 2)

	// sorted by last record descending: wallet first
	assert.Equal(t, domain.SourceOKXWallet, summaries[0].SourceKind)

	exch := summaries[1]
	assert.Equal(t, "main", exch.Note)
	assert.Equal(t, 2, exch.Count)
	assert.True(t, exch.Avg.Equal(decimal.NewFromInt(200)), exch.Avg.String())
	assert.True(t, exch.Min.Equal(decimal.NewFromInt(100)))
	assert.True(t, exch.Max.Equal(decimal.NewFromInt(300)))
	assert.True(t, exch.FirstRecord.Before(exch.LastRecord))
}
