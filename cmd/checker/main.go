// Command checker periodically polls every configured custody source
// (exchange accounts and on-chain wallets), converts the holdings into a
// USDT-equivalent total, appends history rows and pushes summary
// notifications.
//
// Usage:
//
//	checker --config config.yaml
//
// The config file is re-read before every pass, so account edits take
// effect without a restart.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/hotbroker/bnAlphaChecker/config"
	"github.com/hotbroker/bnAlphaChecker/internal/notify"
	"github.com/hotbroker/bnAlphaChecker/internal/services/checker"
	"github.com/hotbroker/bnAlphaChecker/internal/services/fetcher"
	"github.com/hotbroker/bnAlphaChecker/internal/services/pricer"
	"github.com/hotbroker/bnAlphaChecker/internal/storage/ledger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := ledger.NewWALStore(cfg.DatabaseDir)
	if err != nil {
		logger.Fatal("failed to open balance history store", zap.Error(err))
	}
	defer store.Close()

	notifier := notify.New(cfg.Notifications.Endpoint, logger)
	defer notifier.Close()

	// Ticker prices are public, no credentials needed.
	oracle := pricer.NewOracle(pricer.NewBinanceLister(binance.NewClient("", "")), logger)

	chk := checker.New(
		oracle,
		store,
		notifier,
		func(apiKey, apiSecret string) checker.ExchangeClient {
			return fetcher.NewExchangeFetcher(apiKey, apiSecret, logger)
		},
		func(creds config.WalletAPI) checker.WalletClient {
			return fetcher.NewWalletFetcher(creds, logger)
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("balance checker started",
		zap.Duration("check_interval", cfg.CheckInterval),
		zap.Int("accounts", len(cfg.Accounts)))

	chk.CheckAll(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			// Config is re-read every pass; a broken config skips the
			// pass and the next tick retries.
			cfg, err := config.Load(*configPath)
			if err != nil {
				logger.Error("failed to reload configuration, skipping pass", zap.Error(err))
				continue
			}
			chk.CheckAll(ctx, cfg)
		}
	}
}
