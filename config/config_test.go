package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
database:
  dir: /tmp/history
check_interval: 1h
notifications:
  enabled: false
  title: assets
  endpoint: http://push.local/cmd
accounts:
  - api_key: key1
    api_secret: secret1
    note: main
    notify_users: [alice, bob]
    wallet:
      address: "0x52908400098527886E0F7030069857D2E4169EE7"
      chains: "1,56"
wallet_api:
  project_id: p
  api_key: k
  secret_key: s
  passphrase: pass
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/history", cfg.DatabaseDir)
		assert.Equal(t, time.Hour, cfg.CheckInterval)
		assert.False(t, cfg.Notifications.Enabled)
		assert.Equal(t, "assets", cfg.Notifications.Title)
		require.Len(t, cfg.Accounts, 1)
		acc := cfg.Accounts[0]
		assert.Equal(t, "main", acc.Note)
		assert.Equal(t, []string{"alice", "bob"}, acc.NotifyUsers)
		require.NotNil(t, acc.Wallet)
		assert.Equal(t, "1,56", acc.Wallet.Chains)
		assert.True(t, cfg.WalletAPI.Complete())
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, `
accounts:
  - api_key: key1
    api_secret: secret1
    wallet:
      address: "0x52908400098527886E0F7030069857D2E4169EE7"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, defaultDatabaseDir, cfg.DatabaseDir)
		assert.Equal(t, 6*time.Hour, cfg.CheckInterval)
		assert.True(t, cfg.Notifications.Enabled)
		assert.Equal(t, defaultTitle, cfg.Notifications.Title)
		assert.Equal(t, defaultPushEndpoint, cfg.Notifications.Endpoint)
		assert.Equal(t, "unnamed account", cfg.Accounts[0].Note)
		assert.Equal(t, "1", cfg.Accounts[0].Wallet.Chains)
		assert.False(t, cfg.WalletAPI.Complete())
	})

	t.Run("invalid address drops only that wallet", func(t *testing.T) {
		path := writeConfig(t, `
accounts:
  - api_key: key1
    api_secret: secret1
    note: healthy
    wallet:
      address: "0x52908400098527886E0F7030069857D2E4169EE7"
  - api_key: key2
    api_secret: secret2
    note: typo
    wallet:
      address: "not-an-address"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		require.Len(t, cfg.Accounts, 2)
		assert.NotNil(t, cfg.Accounts[0].Wallet)
		assert.Equal(t, "key2", cfg.Accounts[1].APIKey)
		assert.Nil(t, cfg.Accounts[1].Wallet, "bad address disables the wallet source only")
	})

	t.Run("missing address drops the wallet descriptor", func(t *testing.T) {
		path := writeConfig(t, `
accounts:
  - api_key: key1
    api_secret: secret1
    wallet:
      chains: "1"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Len(t, cfg.Accounts, 1)
		assert.Nil(t, cfg.Accounts[0].Wallet)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestWalletAPIComplete(t *testing.T) {
	full := WalletAPI{ProjectID: "p", APIKey: "k", SecretKey: "s", Passphrase: "x"}
	assert.True(t, full.Complete())

	partial := full
	partial.Passphrase = ""
	assert.False(t, partial.Complete())
}
