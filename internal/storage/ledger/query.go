package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
)

// Filter returns rows newer than since, optionally restricted to one
// account note, sorted oldest first.
func Filter(rows []domain.LedgerRow, note string, since time.Time) []domain.LedgerRow {
	var out []domain.LedgerRow
	for _, r := range rows {
		if r.Timestamp.Before(since) {
			continue
		}
		if note != "" && r.Note != note {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out
}

// Summary aggregates the history of one (source kind, note) group.
type Summary struct {
	SourceKind  string
	Note        string
	Count       int
	FirstRecord time.Time
	LastRecord  time.Time
	Avg         decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
}

// Summarize groups rows by (source kind, note) and computes
// count/avg/min/max over the fiat totals, sorted by last record descending.
func Summarize(rows []domain.LedgerRow) []Summary {
	type key struct{ kind, note string }

	groups := make(map[key]*Summary)
	sums := make(map[key]decimal.Decimal)

	for _, r := range rows {
		k := key{r.SourceKind, r.Note}
		g, ok := groups[k]
		if !ok {
			groups[k] = &Summary{
				SourceKind:  r.SourceKind,
				Note:        r.Note,
				Count:       1,
				FirstRecord: r.Timestamp,
				LastRecord:  r.Timestamp,
				Min:         r.TotalUSDT,
				Max:         r.TotalUSDT,
			}
			sums[k] = r.TotalUSDT
			continue
		}

		g.Count++
		if r.Timestamp.Before(g.FirstRecord) {
			g.FirstRecord = r.Timestamp
		}
		if r.Timestamp.After(g.LastRecord) {
			g.LastRecord = r.Timestamp
		}
		if r.TotalUSDT.LessThan(g.Min) {
			g.Min = r.TotalUSDT
		}
		if r.TotalUSDT.GreaterThan(g.Max) {
			g.Max = r.TotalUSDT
		}
		sums[k] = sums[k].Add(r.TotalUSDT)
	}

	out := make([]Summary, 0, len(groups))
	for k, g := range groups {
		g.Avg = sums[k].Div(decimal.NewFromInt(int64(g.Count))).Round(2)
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastRecord.After(out[j].LastRecord)
	})

	return out
}
