package config

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabaseDir   = "./wal/balance_history"
	defaultChains        = "1"
	defaultTitle         = "balance monitor"
	defaultCheckInterval = 6 * time.Hour
	defaultPushEndpoint  = "http://gossiphere.com:9999/cmd"
)

// Config is one full configuration snapshot. It is re-read at the top of
// every pass so account edits take effect without a restart.
type Config struct {
	DatabaseDir   string
	CheckInterval time.Duration
	Notifications Notifications
	Accounts      []Account
	WalletAPI     WalletAPI
}

// Notifications controls the push sink.
type Notifications struct {
	Enabled  bool
	Title    string
	Endpoint string
}

// Account describes one credentialed exchange account plus an optional
// on-chain wallet.
type Account struct {
	APIKey      string
	APISecret   string
	Note        string
	NotifyUsers []string
	Wallet      *Wallet
}

// Wallet is an on-chain wallet descriptor.
type Wallet struct {
	Address string
	Chains  string
}

// WalletAPI holds the four credential fields of the wallet-aggregation API.
type WalletAPI struct {
	ProjectID  string
	APIKey     string
	SecretKey  string
	Passphrase string
}

// Complete reports whether all four wallet-API fields are populated. The
// wallet source is skipped for every user when they are not.
func (w WalletAPI) Complete() bool {
	return w.ProjectID != "" && w.APIKey != "" && w.SecretKey != "" && w.Passphrase != ""
}

type configTmp struct {
	Database struct {
		Dir string `yaml:"dir"`
	} `yaml:"database"`
	CheckInterval time.Duration `yaml:"check_interval"`
	Notifications struct {
		Enabled  *bool  `yaml:"enabled"`
		Title    string `yaml:"title"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"notifications"`
	Accounts []struct {
		APIKey      string   `yaml:"api_key"`
		APISecret   string   `yaml:"api_secret"`
		Note        string   `yaml:"note"`
		NotifyUsers []string `yaml:"notify_users"`
		Wallet      *struct {
			Address string `yaml:"address"`
			Chains  string `yaml:"chains"`
		} `yaml:"wallet,omitempty"`
	} `yaml:"accounts"`
	WalletAPI struct {
		ProjectID  string `yaml:"project_id"`
		APIKey     string `yaml:"api_key"`
		SecretKey  string `yaml:"secret_key"`
		Passphrase string `yaml:"passphrase"`
	} `yaml:"wallet_api"`
}

// Load reads and validates the YAML config at path. It is a pure
// read-then-use function: callers must not cache the result across passes.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	cfg := Config{
		DatabaseDir:   tmp.Database.Dir,
		CheckInterval: tmp.CheckInterval,
		Notifications: Notifications{
			Enabled:  true,
			Title:    tmp.Notifications.Title,
			Endpoint: tmp.Notifications.Endpoint,
		},
		WalletAPI: WalletAPI(tmp.WalletAPI),
	}
	if tmp.Notifications.Enabled != nil {
		cfg.Notifications.Enabled = *tmp.Notifications.Enabled
	}
	if cfg.DatabaseDir == "" {
		cfg.DatabaseDir = defaultDatabaseDir
	}
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = defaultCheckInterval
	}
	if cfg.Notifications.Title == "" {
		cfg.Notifications.Title = defaultTitle
	}
	if cfg.Notifications.Endpoint == "" {
		cfg.Notifications.Endpoint = defaultPushEndpoint
	}

	for i, a := range tmp.Accounts {
		acc := Account{
			APIKey:      a.APIKey,
			APISecret:   a.APISecret,
			Note:        a.Note,
			NotifyUsers: a.NotifyUsers,
		}
		if acc.Note == "" {
			acc.Note = "unnamed account"
		}
		if a.Wallet != nil {
			// A bad address only disables this account's wallet source;
			// it must never abort the whole pass.
			if !common.IsHexAddress(a.Wallet.Address) {
				zap.L().Warn("dropping wallet descriptor with invalid address",
					zap.Int("account", i), zap.String("note", acc.Note))
			} else {
				acc.Wallet = &Wallet{
					Address: a.Wallet.Address,
					Chains:  a.Wallet.Chains,
				}
				if acc.Wallet.Chains == "" {
					acc.Wallet.Chains = defaultChains
				}
			}
		}
		cfg.Accounts = append(cfg.Accounts, acc)
	}

	return cfg, nil
}
