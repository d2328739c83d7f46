package domain

import "github.com/shopspring/decimal"

// ExchangeResult holds the outcome of one exchange account check.
// A failed spot or funding sub-call shows up as a zero sub-total, not as an
// error: partial data is better than none.
type ExchangeResult struct {
	Note         string
	SpotTotal    decimal.Decimal
	FundingTotal decimal.Decimal
	Holdings     []Holding // spot then funding, dust-filtered
}

// CombinedTotal returns spot + funding.
func (r ExchangeResult) CombinedTotal() decimal.Decimal {
	return r.SpotTotal.Add(r.FundingTotal)
}

// WalletResult holds the outcome of one on-chain wallet check. Fetched
// distinguishes a confirmed total from an unknown one: a zero with
// Fetched=false must never be treated as an empty wallet.
type WalletResult struct {
	Address string
	Chains  string
	Total   decimal.Decimal
	Fetched bool
}

// UserAggregate is the per-user merge of all configured sources for one pass.
// It is built fresh every pass and discarded after notification and
// persistence.
type UserAggregate struct {
	Note     string
	Exchange *ExchangeResult
	Wallet   *WalletResult
	Total    decimal.Decimal
}
