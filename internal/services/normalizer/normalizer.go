// Package normalizer converts raw asset balances into USDT-equivalent
// values using a price snapshot.
package normalizer

import (
	"github.com/shopspring/decimal"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
	"github.com/hotbroker/bnAlphaChecker/internal/services/pricer"
)

// dustThreshold is the minimum total below which a holding is omitted from
// display lists. It never affects the fiat sum.
var dustThreshold = decimal.NewFromFloat(0.001)

// TotalFiat sums quantity × price over ALL balances, dust included. Assets
// the snapshot cannot price contribute zero and are dropped from the sum
// silently; that is intended behavior, not an error path.
func TotalFiat(balances []domain.Balance, snap pricer.Snapshot) decimal.Decimal {
	total := decimal.Zero

	for _, b := range balances {
		qty := b.Total()
		if !qty.IsPositive() {
			continue
		}
		price, found := snap.Lookup(b.Asset)
		if !found {
			continue
		}
		total = total.Add(qty.Mul(price))
	}

	return total
}

// Significant filters balances down to display-grade holdings, dropping
// dust (total ≤ 0.001). Inclusion here is independent of whether the asset
// is priceable: an unpriced balance above the threshold still shows up.
func Significant(balances []domain.Balance, sub domain.SubAccount) []domain.Holding {
	var holdings []domain.Holding

	for _, b := range balances {
		total := b.Total()
		if total.LessThanOrEqual(dustThreshold) {
			continue
		}
		holdings = append(holdings, domain.Holding{
			Asset:      b.Asset,
			Total:      total,
			Free:       b.Free,
			Locked:     b.Locked,
			SubAccount: sub,
		})
	}

	return holdings
}
