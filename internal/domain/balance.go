package domain

import "github.com/shopspring/decimal"

// SubAccount tags which exchange sub-ledger a holding came from.
type SubAccount string

const (
	SubAccountSpot    SubAccount = "spot"
	SubAccountFunding SubAccount = "funding"
)

// Balance is a raw asset balance as reported by a remote source.
type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// Total returns free + locked.
func (b Balance) Total() decimal.Decimal {
	return b.Free.Add(b.Locked)
}

// Holding is a display-grade balance that passed the dust filter.
type Holding struct {
	Asset      string          `json:"asset"`
	Total      decimal.Decimal `json:"total"`
	Free       decimal.Decimal `json:"free"`
	Locked     decimal.Decimal `json:"locked"`
	SubAccount SubAccount      `json:"account_type"`
}
