package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Ledger modes.
const (
	LedgerModeHedera    = "hedera"
	LedgerModeSimulated = "simulated"
)

// Ledger networks.
const (
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Ledger   LedgerConfig
	Payment  PaymentConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects where campaigns, contributions and transaction records live.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LedgerConfig holds the operator credentials for the ledger network.
// The private key must never be logged.
type LedgerConfig struct {
	Mode       string
	AccountID  string
	PrivateKey string
	Network    string
	Timeout    time.Duration

	// SimulatedBalance is the operator's starting balance in simulated mode.
	SimulatedBalance decimal.Decimal
}

// Configured reports whether both operator credentials are present.
func (c LedgerConfig) Configured() bool {
	return c.AccountID != "" && c.PrivateKey != ""
}

// String redacts the private key.
func (c LedgerConfig) String() string {
	key := ""
	if c.PrivateKey != "" {
		key = "[redacted]"
	}
	return fmt.Sprintf("LedgerConfig{Mode:%s AccountID:%s PrivateKey:%s Network:%s Timeout:%s}", c.Mode, c.AccountID, key, c.Network, c.Timeout)
}

// PaymentConfig holds contribution settlement settings.
type PaymentConfig struct {
	// ExchangeRate is the fiat value of one native ledger unit.
	ExchangeRate decimal.Decimal
	// DefaultTreasury receives contributions for campaigns without their own account.
	DefaultTreasury string
	// Treasuries maps campaign ID to treasury account ID.
	Treasuries map[string]string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreMemory),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "dchanga"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("CAMPAIGN_CACHE_TTL", 30*time.Second),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "dchanga"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Ledger: LedgerConfig{
			Mode:             getEnv("LEDGER_MODE", LedgerModeHedera),
			AccountID:        os.Getenv("HEDERA_ACCOUNT_ID"),
			PrivateKey:       os.Getenv("HEDERA_PRIVATE_KEY"),
			Network:          getEnv("HEDERA_NETWORK", NetworkTestnet),
			Timeout:          getDurationEnv("LEDGER_TIMEOUT", 5*time.Second),
			SimulatedBalance: getDecimalEnv("LEDGER_SIMULATED_BALANCE", decimal.NewFromInt(10000)),
		},
		Payment: PaymentConfig{
			ExchangeRate:    getDecimalEnv("LEDGER_EXCHANGE_RATE", decimal.RequireFromString("0.5")),
			DefaultTreasury: getEnv("TREASURY_DEFAULT_ACCOUNT", ""),
			Treasuries:      getMapEnv("TREASURY_ACCOUNTS"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getDecimalEnv ignores non-positive values.
func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil && d.IsPositive() {
			return d
		}
	}
	return defaultValue
}

// getMapEnv parses "k1=v1,k2=v2". Malformed pairs are skipped.
func getMapEnv(key string) map[string]string {
	result := make(map[string]string)
	value := os.Getenv(key)
	if value == "" {
		return result
	}
	for _, pair := range strings.Split(value, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		result[k] = v
	}
	return result
}
