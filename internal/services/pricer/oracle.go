package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stableAssets are treated as 1:1 with the USDT reporting unit without a
// price lookup. Static policy table, not derived.
var stableAssets = map[string]struct{}{
	"USDT": {},
	"BUSD": {},
	"USDC": {},
}

// Snapshot maps trading-pair symbols to prices. One snapshot is fetched per
// check and reused for every asset in it; it is never cached across checks.
type Snapshot map[string]decimal.Decimal

// Lookup resolves the USDT price of an asset. Stable-coins short-circuit to
// 1 without touching the snapshot; otherwise the direct <asset>USDT pair is
// tried, then the BTC bridge (<asset>BTC × BTCUSDT). Assets priced neither
// way report found=false and are silently excluded from totals.
func (s Snapshot) Lookup(asset string) (decimal.Decimal, bool) {
	if _, ok := stableAssets[asset]; ok {
		return decimal.NewFromInt(1), true
	}

	if price, ok := s[asset+"USDT"]; ok {
		return price, true
	}

	btcPrice, okBTC := s[asset+"BTC"]
	btcUSDT, okUSDT := s["BTCUSDT"]
	if okBTC && okUSDT {
		return btcPrice.Mul(btcUSDT), true
	}

	return decimal.Decimal{}, false
}

// Lister fetches the full ticker price list.
type Lister interface {
	ListPrices(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// BinanceLister adapts the Binance client to Lister.
type BinanceLister struct {
	client *binance.Client
}

func NewBinanceLister(client *binance.Client) *BinanceLister {
	return &BinanceLister{client: client}
}

func (l *BinanceLister) ListPrices(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return l.client.NewListPricesService().Do(ctx)
}

// Oracle fetches full ticker snapshots.
type Oracle struct {
	lister Lister
	logger *zap.Logger
}

func NewOracle(lister Lister, logger *zap.Logger) *Oracle {
	return &Oracle{lister: lister, logger: logger}
}

// Snapshot fetches the full ticker list in a single call. It fails soft: on
// any transport or upstream failure an empty snapshot is returned and every
// non-stable asset stays unpriced for this check, rather than aborting the
// whole pass.
func (o *Oracle) Snapshot(ctx context.Context) Snapshot {
	prices, err := o.lister.ListPrices(ctx)
	if err != nil {
		o.logger.Error("failed to fetch ticker prices", zap.Error(err))
		return Snapshot{}
	}

	snap := make(Snapshot, len(prices))
	for _, p := range prices {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			o.logger.Warn("skipping unparsable ticker price",
				zap.String("symbol", p.Symbol), zap.String("price", p.Price))
			continue
		}
		snap[p.Symbol] = price
	}

	return snap
}
