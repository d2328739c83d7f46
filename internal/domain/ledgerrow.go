package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Source kinds recorded in ledger rows. Values match the histories written
// by the previous generation of this tool so old and new rows stay
// comparable.
const (
	SourceBinance   = "binance"
	SourceOKXWallet = "okx_wallet"
)

// LedgerRow is one append-only balance history record. Rows are immutable
// once written; Identifier carries a one-way hash, never raw credential
// material.
type LedgerRow struct {
	SourceKind string          `json:"account_type"`
	Note       string          `json:"account_note"`
	Identifier string          `json:"account_identifier"`
	Timestamp  time.Time       `json:"timestamp"`
	TotalUSDT  decimal.Decimal `json:"total_usdt"`
	Details    json.RawMessage `json:"asset_details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
