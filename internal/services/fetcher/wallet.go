package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hotbroker/bnAlphaChecker/config"
	"github.com/hotbroker/bnAlphaChecker/internal/signer"
	"github.com/hotbroker/bnAlphaChecker/pkg/retrier"
)

const (
	defaultWalletBaseURL = "https://web3.okx.com"
	walletEndpoint       = "/api/v5/wallet/asset/total-value-by-address"
	walletTimeout        = 15 * time.Second

	// All asset classes, risk tokens always excluded. Neither is a toggle.
	walletAssetType        = "0"
	walletExcludeRiskToken = "true"
)

// WalletFetcher retrieves the aggregate fiat value of an address across one
// or more chains. The upstream is known to be flaky, so every fetch runs
// under a bounded fixed-delay retry; the first successful attempt wins.
type WalletFetcher struct {
	creds   config.WalletAPI
	baseURL string
	httpc   *http.Client
	retrier *retrier.Retrier
	logger  *zap.Logger
}

// WalletOption configures the WalletFetcher.
type WalletOption func(*WalletFetcher)

// WithWalletBaseURL overrides the API base URL.
func WithWalletBaseURL(u string) WalletOption {
	return func(f *WalletFetcher) {
		f.baseURL = u
	}
}

// WithWalletRetrier overrides the retry policy.
func WithWalletRetrier(r *retrier.Retrier) WalletOption {
	return func(f *WalletFetcher) {
		f.retrier = r
	}
}

func NewWalletFetcher(creds config.WalletAPI, logger *zap.Logger, opts ...WalletOption) *WalletFetcher {
	f := &WalletFetcher{
		creds:   creds,
		baseURL: defaultWalletBaseURL,
		httpc:   &http.Client{Timeout: walletTimeout},
		retrier: retrier.New(),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

type walletResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		TotalValue string `json:"totalValue"`
	} `json:"data"`
}

// FetchTotal returns the aggregate USD value of the address and whether the
// fetch succeeded. A (0, false) result means "unknown", never "confirmed
// zero balance"; callers must not add it to any total.
func (f *WalletFetcher) FetchTotal(ctx context.Context, address, chains string) (decimal.Decimal, bool) {
	attempt := 0
	total, err := retrier.DoWithData(f.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		attempt++
		value, err := f.fetchOnce(ctx, address, chains)
		if err != nil {
			f.logger.Warn("wallet value fetch attempt failed",
				zap.Int("attempt", attempt),
				zap.String("address", shortenAddress(address)),
				zap.Error(err))
			return decimal.Decimal{}, err
		}
		return value, nil
	})
	if err != nil {
		f.logger.Error("wallet value fetch exhausted retries",
			zap.String("address", shortenAddress(address)), zap.Error(err))
		return decimal.Zero, false
	}

	return total, true
}

func (f *WalletFetcher) fetchOnce(ctx context.Context, address, chains string) (decimal.Decimal, error) {
	query := fmt.Sprintf("address=%s&chains=%s&assetType=%s&excludeRiskToken=%s",
		address, chains, walletAssetType, walletExcludeRiskToken)
	requestPath := walletEndpoint + "?" + query

	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	sig := signer.SignRequest(timestamp, http.MethodGet, requestPath, "", f.creds.SecretKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+requestPath, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("OK-ACCESS-PROJECT", f.creds.ProjectID)
	req.Header.Set("OK-ACCESS-KEY", f.creds.APIKey)
	req.Header.Set("OK-ACCESS-SIGN", sig)
	req.Header.Set("OK-ACCESS-PASSPHRASE", f.creds.Passphrase)
	req.Header.Set("OK-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpc.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}

	var wr walletResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode wallet response: %w", err)
	}
	// The upstream encodes its own error code distinct from HTTP status.
	if wr.Code != "0" || len(wr.Data) == 0 {
		return decimal.Decimal{}, fmt.Errorf("wallet API error code %s: %s", wr.Code, wr.Msg)
	}

	return decimal.NewFromString(wr.Data[0].TotalValue)
}

func shortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
