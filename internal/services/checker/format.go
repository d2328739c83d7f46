package checker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
)

const topAssetLimit = 8

var topAssetFloor = decimal.NewFromInt(1)

var chainNames = map[string]string{
	"1":     "Ethereum",
	"56":    "BSC",
	"137":   "Polygon",
	"43114": "Avalanche",
	"250":   "Fantom",
	"42161": "Arbitrum",
	"10":    "Optimism",
}

// FormatReport renders a user aggregate as the notification body.
func FormatReport(agg domain.UserAggregate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Asset report\n\n")
	fmt.Fprintf(&b, "User: %s\n", agg.Note)
	fmt.Fprintf(&b, "Total value: $%s USD\n\n", agg.Total.StringFixed(2))

	if agg.Exchange != nil {
		ex := agg.Exchange
		fmt.Fprintf(&b, "Exchange: $%s USDT\n", ex.CombinedTotal().StringFixed(2))
		if ex.SpotTotal.IsPositive() {
			fmt.Fprintf(&b, "  spot: $%s USDT\n", ex.SpotTotal.StringFixed(2))
		}
		if ex.FundingTotal.IsPositive() {
			fmt.Fprintf(&b, "  funding: $%s USDT\n", ex.FundingTotal.StringFixed(2))
		}
		if top := topHoldings(ex.Holdings); len(top) > 0 {
			b.WriteString("Main assets:\n")
			for _, h := range top {
				fmt.Fprintf(&b, "  [%s] %s: %s\n", h.SubAccount, h.Asset, h.Total.StringFixed(4))
			}
		}
	} else {
		b.WriteString("Exchange: not configured or unavailable\n")
	}

	if agg.Wallet != nil {
		w := agg.Wallet
		if w.Fetched {
			fmt.Fprintf(&b, "\nOn-chain wallet: $%s USD\n", w.Total.StringFixed(2))
		} else {
			b.WriteString("\nOn-chain wallet: fetch failed\n")
		}
		fmt.Fprintf(&b, "Address: %s\n", shortAddress(w.Address))
		fmt.Fprintf(&b, "Chains: %s\n", chainDisplay(w.Chains))
	} else {
		b.WriteString("\nOn-chain wallet: not configured\n")
	}

	fmt.Fprintf(&b, "\nChecked at: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	return b.String()
}

// topHoldings returns the largest holdings above the display floor, at most
// topAssetLimit of them, sorted by quantity descending.
func topHoldings(holdings []domain.Holding) []domain.Holding {
	sorted := make([]domain.Holding, len(holdings))
	copy(sorted, holdings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Total.GreaterThan(sorted[j].Total)
	})

	var top []domain.Holding
	for _, h := range sorted {
		if len(top) == topAssetLimit {
			break
		}
		if h.Total.GreaterThan(topAssetFloor) {
			top = append(top, h)
		}
	}

	return top
}

func chainDisplay(chains string) string {
	parts := strings.Split(chains, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if name, ok := chainNames[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, "Chain-"+id)
		}
	}
	return strings.Join(names, ", ")
}

func shortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
