// Package checker aggregates balances across every configured custody
// source and turns them into history rows and notifications.
package checker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hotbroker/bnAlphaChecker/config"
	"github.com/hotbroker/bnAlphaChecker/internal/domain"
	"github.com/hotbroker/bnAlphaChecker/internal/services/normalizer"
	"github.com/hotbroker/bnAlphaChecker/internal/services/pricer"
	"github.com/hotbroker/bnAlphaChecker/internal/storage/ledger"
)

// ExchangeClient fetches raw exchange balances for one account.
type ExchangeClient interface {
	SpotBalances(ctx context.Context) []domain.Balance
	FundingBalances(ctx context.Context) []domain.Balance
}

// WalletClient fetches the aggregate value of an on-chain address.
type WalletClient interface {
	FetchTotal(ctx context.Context, address, chains string) (decimal.Decimal, bool)
}

// Oracle provides a fresh price snapshot.
type Oracle interface {
	Snapshot(ctx context.Context) pricer.Snapshot
}

// Ledger appends balance history rows.
type Ledger interface {
	Append(row domain.LedgerRow) error
}

// Notifier dispatches a report asynchronously.
type Notifier interface {
	Send(recipient, body, title string)
}

// Checker runs balance checks over all configured accounts.
type Checker struct {
	oracle      Oracle
	ledger      Ledger
	notifier    Notifier
	newExchange func(apiKey, apiSecret string) ExchangeClient
	newWallet   func(creds config.WalletAPI) WalletClient
	logger      *zap.Logger
}

func New(
	oracle Oracle,
	store Ledger,
	notifier Notifier,
	newExchange func(apiKey, apiSecret string) ExchangeClient,
	newWallet func(creds config.WalletAPI) WalletClient,
	logger *zap.Logger,
) *Checker {
	return &Checker{
		oracle:      oracle,
		ledger:      store,
		notifier:    notifier,
		newExchange: newExchange,
		newWallet:   newWallet,
		logger:      logger,
	}
}

// CheckAll runs one aggregation pass over every account in cfg. Accounts
// run concurrently; a failure in one never aborts the others.
func (c *Checker) CheckAll(ctx context.Context, cfg config.Config) {
	g := new(errgroup.Group)

	for _, account := range cfg.Accounts {
		acc := account
		g.Go(func() error {
			agg := c.CheckUser(ctx, acc, cfg.WalletAPI)

			if cfg.Notifications.Enabled && len(acc.NotifyUsers) > 0 {
				body := FormatReport(agg)
				for _, user := range acc.NotifyUsers {
					c.notifier.Send(user, body, cfg.Notifications.Title)
				}
			}

			c.logger.Info("user assets checked",
				zap.String("note", agg.Note),
				zap.String("total_usd", agg.Total.StringFixed(2)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("account check failed", zap.Error(err))
	}
}

// CheckUser aggregates every configured source of one account into a
// UserAggregate and appends one ledger row per attempted source. The
// exchange is always attempted; the wallet only when its descriptor and the
// full wallet-API credentials are present.
func (c *Checker) CheckUser(ctx context.Context, account config.Account, walletAPI config.WalletAPI) domain.UserAggregate {
	agg := domain.UserAggregate{
		Note:  account.Note,
		Total: decimal.Zero,
	}

	if exchange := c.checkExchange(ctx, account); exchange != nil {
		agg.Exchange = exchange
		agg.Total = agg.Total.Add(exchange.CombinedTotal())
	}

	if wallet := c.checkWallet(ctx, account, walletAPI); wallet != nil {
		agg.Wallet = wallet
		// A failed fetch is "unknown", not "zero": it must never join
		// the combined total.
		if wallet.Fetched {
			agg.Total = agg.Total.Add(wallet.Total)
		}
	}

	return agg
}

type exchangeDetails struct {
	SpotBalances    []domain.Holding `json:"spot_balances"`
	FundingBalances []domain.Holding `json:"funding_balances"`
	SpotTotalUSDT   decimal.Decimal  `json:"spot_total_usdt"`
	FundingTotal    decimal.Decimal  `json:"funding_total_usdt"`
}

func (c *Checker) checkExchange(ctx context.Context, account config.Account) *domain.ExchangeResult {
	if account.APIKey == "" || account.APISecret == "" {
		c.logger.Warn("exchange account missing API credentials, skipping",
			zap.String("note", account.Note))
		return nil
	}

	c.logger.Info("checking exchange account", zap.String("note", account.Note))

	client := c.newExchange(account.APIKey, account.APISecret)
	spot := client.SpotBalances(ctx)
	funding := client.FundingBalances(ctx)

	snap := c.oracle.Snapshot(ctx)

	spotHoldings := normalizer.Significant(spot, domain.SubAccountSpot)
	fundingHoldings := normalizer.Significant(funding, domain.SubAccountFunding)

	result := &domain.ExchangeResult{
		Note:         account.Note,
		SpotTotal:    normalizer.TotalFiat(spot, snap),
		FundingTotal: normalizer.TotalFiat(funding, snap),
		Holdings:     append(spotHoldings, fundingHoldings...),
	}

	c.appendRow(domain.SourceBinance, account.Note, account.APIKey, result.CombinedTotal(), exchangeDetails{
		SpotBalances:    spotHoldings,
		FundingBalances: fundingHoldings,
		SpotTotalUSDT:   result.SpotTotal,
		FundingTotal:    result.FundingTotal,
	})

	c.logger.Info("exchange account checked",
		zap.String("note", account.Note),
		zap.String("spot_usdt", result.SpotTotal.StringFixed(2)),
		zap.String("funding_usdt", result.FundingTotal.StringFixed(2)),
		zap.String("total_usdt", result.CombinedTotal().StringFixed(2)))

	return result
}

type walletDetails struct {
	Address       string          `json:"address"`
	Chains        string          `json:"chains"`
	TotalValueUSD decimal.Decimal `json:"total_value_usd"`
	FetchSuccess  bool            `json:"fetch_success"`
}

func (c *Checker) checkWallet(ctx context.Context, account config.Account, walletAPI config.WalletAPI) *domain.WalletResult {
	if account.Wallet == nil || account.Wallet.Address == "" {
		return nil
	}
	if !walletAPI.Complete() {
		c.logger.Warn("wallet API credentials incomplete, skipping wallet",
			zap.String("note", account.Note))
		return nil
	}

	c.logger.Info("checking on-chain wallet",
		zap.String("note", account.Note),
		zap.String("chains", account.Wallet.Chains))

	client := c.newWallet(walletAPI)
	total, fetched := client.FetchTotal(ctx, account.Wallet.Address, account.Wallet.Chains)
	if !fetched {
		c.logger.Warn("wallet value fetch failed", zap.String("note", account.Note))
	}

	result := &domain.WalletResult{
		Address: account.Wallet.Address,
		Chains:  account.Wallet.Chains,
		Total:   total,
		Fetched: fetched,
	}

	c.appendRow(domain.SourceOKXWallet, account.Note+"-wallet", account.Wallet.Address, total, walletDetails{
		Address:       account.Wallet.Address,
		Chains:        account.Wallet.Chains,
		TotalValueUSD: total,
		FetchSuccess:  fetched,
	})

	return result
}

// appendRow persists one history row. Persistence failure is logged and the
// pass continues: it must not suppress notification of the in-memory
// aggregate.
func (c *Checker) appendRow(kind, note, identifier string, total decimal.Decimal, details any) {
	blob, err := json.Marshal(details)
	if err != nil {
		c.logger.Error("failed to encode ledger details", zap.Error(err))
		blob = nil
	}

	row := domain.LedgerRow{
		SourceKind: kind,
		Note:       note,
		Identifier: ledger.HashIdentifier(identifier),
		Timestamp:  time.Now(),
		TotalUSDT:  total,
		Details:    blob,
	}

	if err := c.ledger.Append(row); err != nil {
		c.logger.Error("failed to append ledger row",
			zap.String("source", kind), zap.String("note", note), zap.Error(err))
	}
}
