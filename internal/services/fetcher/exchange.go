// Package fetcher retrieves raw balance data from remote custody sources.
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

	"github.com/hotbroker/bnAlphaChecker/internal/domain"
	"github.com/hotbroker/bnAlphaChecker/internal/signer"
)

const (
	defaultExchangeBaseURL = "https://api.binance.com"
	spotEndpoint           = "/api/v3/account"
	fundingEndpoint        = "/sapi/v1/asset/get-funding-asset"
	exchangeTimeout        = 10 * time.Second

	// recvWindow is fixed upstream policy, not configurable.
	recvWindow = "60000"
)

// ExchangeFetcher retrieves spot and funding balances for one credentialed
// exchange account. Each call is a single attempt that fails soft to an
// empty list: a failed sub-fetch reports a zero sub-total, it is never
// surfaced as an error.
type ExchangeFetcher struct {
	apiKey    string
	apiSecret string
	baseURL   string
	httpc     *http.Client
	logger    *zap.Logger
}

// ExchangeOption configures the ExchangeFetcher.
type ExchangeOption func(*ExchangeFetcher)

// WithExchangeBaseURL overrides the API base URL.
func WithExchangeBaseURL(u string) ExchangeOption {
	return func(f *ExchangeFetcher) {
		f.baseURL = u
	}
}

// WithExchangeHTTPClient overrides the HTTP client.
func WithExchangeHTTPClient(c *http.Client) ExchangeOption {
	return func(f *ExchangeFetcher) {
		f.httpc = c
	}
}

func NewExchangeFetcher(apiKey, apiSecret string, logger *zap.Logger, opts ...ExchangeOption) *ExchangeFetcher {
	f := &ExchangeFetcher{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultExchangeBaseURL,
		httpc:     &http.Client{Timeout: exchangeTimeout},
		logger:    logger,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

type spotAccountResponse struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

type fundingAssetRow struct {
	Asset string `json:"asset"`
	Free  string `json:"free"`
}

// SpotBalances fetches the spot account balances.
func (f *ExchangeFetcher) SpotBalances(ctx context.Context) []domain.Balance {
	body, err := f.signedCall(ctx, http.MethodGet, spotEndpoint)
	if err != nil {
		f.logger.Error("spot balance request failed", zap.Error(err))
		return nil
	}

	var resp spotAccountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		f.logger.Error("failed to decode spot balances", zap.Error(err))
		return nil
	}

	balances := make([]domain.Balance, 0, len(resp.Balances))
	for _, b := range resp.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			f.logger.Warn("skipping spot balance with bad quantity",
				zap.String("asset", b.Asset), zap.String("free", b.Free))
			continue
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			f.logger.Warn("skipping spot balance with bad quantity",
				zap.String("asset", b.Asset), zap.String("locked", b.Locked))
			continue
		}
		balances = append(balances, domain.Balance{Asset: b.Asset, Free: free, Locked: locked})
	}

	return balances
}

// FundingBalances fetches the funding sub-account balances. The funding
// endpoint only reports a spendable quantity, so Locked stays zero.
func (f *ExchangeFetcher) FundingBalances(ctx context.Context) []domain.Balance {
	body, err := f.signedCall(ctx, http.MethodPost, fundingEndpoint)
	if err != nil {
		f.logger.Error("funding balance request failed", zap.Error(err))
		return nil
	}

	var rows []fundingAssetRow
	if err := json.Unmarshal(body, &rows); err != nil {
		f.logger.Error("failed to decode funding balances", zap.Error(err))
		return nil
	}

	balances := make([]domain.Balance, 0, len(rows))
	for _, r := range rows {
		free, err := decimal.NewFromString(r.Free)
		if err != nil {
			f.logger.Warn("skipping funding balance with bad quantity",
				zap.String("asset", r.Asset), zap.String("free", r.Free))
			continue
		}
		balances = append(balances, domain.Balance{Asset: r.Asset, Free: free, Locked: decimal.Zero})
	}

	return balances
}

func (f *ExchangeFetcher) signedCall(ctx context.Context, method, endpoint string) ([]byte, error) {
	query := fmt.Sprintf("timestamp=%d&recvWindow=%s", time.Now().UnixMilli(), recvWindow)
	sig := signer.SignQuery(query, f.apiSecret)
	url := fmt.Sprintf("%s%s?%s&signature=%s", f.baseURL, endpoint, query, sig)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", f.apiKey)

	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: HTTP %d: %s", method, endpoint, resp.StatusCode, body)
	}

	return body, nil
}
