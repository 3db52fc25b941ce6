package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HEDERA_ACCOUNT_ID", "")
	t.Setenv("HEDERA_PRIVATE_KEY", "")
	t.Setenv("HEDERA_NETWORK", "")
	t.Setenv("LEDGER_EXCHANGE_RATE", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("TREASURY_ACCOUNTS", "")
	t.Setenv("LEDGER_MODE", "")
	t.Setenv("LEDGER_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, LedgerModeHedera, cfg.Ledger.Mode)
	assert.Equal(t, NetworkTestnet, cfg.Ledger.Network)
	assert.Equal(t, 5*time.Second, cfg.Ledger.Timeout)
	assert.False(t, cfg.Ledger.Configured())
	assert.Equal(t, "0.5", cfg.Payment.ExchangeRate.String())
	assert.Empty(t, cfg.Payment.Treasuries)
}

func TestLoad_LedgerAndTreasuries(t *testing.T) {
	t.Setenv("HEDERA_ACCOUNT_ID", "0.0.1001")
	t.Setenv("HEDERA_PRIVATE_KEY", "302e020100300506032b657004220420deadbeef")
	t.Setenv("HEDERA_NETWORK", NetworkMainnet)
	t.Setenv("LEDGER_TIMEOUT", "2s")
	t.Setenv("LEDGER_EXCHANGE_RATE", "0.25")
	t.Setenv("TREASURY_ACCOUNTS", "1=0.0.500, 2 = 0.0.600,broken,=0.0.7")

	cfg := Load()

	require.True(t, cfg.Ledger.Configured())
	assert.Equal(t, NetworkMainnet, cfg.Ledger.Network)
	assert.Equal(t, 2*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, "0.25", cfg.Payment.ExchangeRate.String())
	assert.Equal(t, map[string]string{"1": "0.0.500", "2": "0.0.600"}, cfg.Payment.Treasuries)
}

func TestLoad_RejectsNonPositiveExchangeRate(t *testing.T) {
	t.Setenv("LEDGER_EXCHANGE_RATE", "-3")

	cfg := Load()

	assert.Equal(t, "0.5", cfg.Payment.ExchangeRate.String())
}

func TestLedgerConfig_StringRedactsKey(t *testing.T) {
	cfg := LedgerConfig{AccountID: "0.0.1001", PrivateKey: "super-secret", Network: NetworkTestnet}

	s := cfg.String()

	assert.NotContains(t, s, "super-secret")
	assert.Contains(t, s, "[redacted]")
	assert.Contains(t, s, "0.0.1001")
}
