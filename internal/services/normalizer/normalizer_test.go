package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
	"github.com/hotbroker/bnAlphaChecker/internal/services/pricer"
)

func bal(asset string, free, locked float64) domain.Balance {
	return domain.Balance{
		Asset:  asset,
		Free:   decimal.NewFromFloat(free),
		Locked: decimal.NewFromFloat(locked),
	}
}

func TestTotalFiat(t *testing.T) {
	snap := pricer.Snapshot{
		"ETHUSDT": decimal.NewFromInt(3000),
		"XYZBTC":  decimal.NewFromFloat(0.001),
		"BTCUSDT": decimal.NewFromInt(60000),
	}

	t.Run("stable coin counts as its quantity exactly", func(t *testing.T) {
		total := TotalFiat([]domain.Balance{bal("USDT", 70, 30)}, pricer.Snapshot{})
		assert.True(t, total.Equal(decimal.NewFromInt(100)), total.String())
	})

	t.Run("spot scenario: 100 USDT + 2 ETH at 3000", func(t *testing.T) {
		total := TotalFiat([]domain.Balance{
			bal("USDT", 100, 0),
			bal("ETH", 2, 0),
		}, snap)
		assert.True(t, total.Equal(decimal.NewFromInt(6100)), total.String())
	})

	t.Run("bridge priced asset", func(t *testing.T) {
		// 5 XYZ × 0.001 BTC × 60000 = 300
		total := TotalFiat([]domain.Balance{bal("XYZ", 5, 0)}, snap)
		assert.True(t, total.Equal(decimal.NewFromInt(300)), total.String())
	})

	t.Run("unpriced asset contributes zero", func(t *testing.T) {
		total := TotalFiat([]domain.Balance{
			bal("NOPE", 1000, 0),
			bal("USDT", 10, 0),
		}, snap)
		assert.True(t, total.Equal(decimal.NewFromInt(10)), total.String())
	})

	t.Run("dust is still summed", func(t *testing.T) {
		total := TotalFiat([]domain.Balance{bal("USDT", 0.0005, 0)}, snap)
		assert.True(t, total.Equal(decimal.NewFromFloat(0.0005)), total.String())
	})

	t.Run("locked quantities count", func(t *testing.T) {
		total := TotalFiat([]domain.Balance{bal("ETH", 1, 1)}, snap)
		assert.True(t, total.Equal(decimal.NewFromInt(6000)), total.String())
	})
}

func TestSignificant(t *testing.T) {
	t.Run("dust filtered from display only", func(t *testing.T) {
		holdings := Significant([]domain.Balance{
			bal("ETH", 2, 0),
			bal("DUST", 0.0009, 0),
			bal("EXACT", 0.001, 0), // threshold is exclusive
		}, domain.SubAccountSpot)

		require.Len(t, holdings, 1)
		assert.Equal(t, "ETH", holdings[0].Asset)
		assert.Equal(t, domain.SubAccountSpot, holdings[0].SubAccount)
	})

	t.Run("unpriced assets are not excluded by display filter", func(t *testing.T) {
		holdings := Significant([]domain.Balance{bal("NOPE", 5, 0)}, domain.SubAccountFunding)
		require.Len(t, holdings, 1)
		assert.Equal(t, "NOPE", holdings[0].Asset)
		assert.Equal(t, domain.SubAccountFunding, holdings[0].SubAccount)
	})

	t.Run("total is free plus locked", func(t *testing.T) {
		holdings := Significant([]domain.Balance{bal("BTC", 0.5, 0.25)}, domain.SubAccountSpot)
		require.Len(t, holdings, 1)
		assert.True(t, holdings[0].Total.Equal(decimal.NewFromFloat(0.75)))
	})
}
