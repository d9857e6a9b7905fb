package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dwarvesf/htlc-backend/internal/types/environments"
)

const (
	defaultMinTimelock = 3600
	defaultMaxTimelock = 86400
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Store       StoreConfig
	Postgres    DBConnection
	Redis       RedisConfig
	HTLC        HTLCConfig
	Address     AddressConfig
	SwapMonitor SwapMonitorConfig
	Faucet      FaucetConfig
	Events      EventsConfig
}

type ApiServerConfig struct {
	AllowedOrigins string
	Port           string
}

// StoreConfig selects the key-value backend: memory, bolt, postgres or redis.
type StoreConfig struct {
	Backend  string
	BoltPath string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// HTLCConfig holds the timelock window, in seconds relative to the
// creation time, and the account that custodies escrowed funds.
type HTLCConfig struct {
	MinTimelock     uint64
	MaxTimelock     uint64
	ContractAddress string
}

// AddressConfig selects how party addresses are validated: bech32, evm or btc.
type AddressConfig struct {
	Format       string
	Bech32Prefix string
	BtcNetwork   string
}

type SwapMonitorConfig struct {
	Schedule string
	// UptimeWebhookURL is pinged after every successful run.
	UptimeWebhookURL string
}

// EventsConfig points at the indexer that receives swap events.
type EventsConfig struct {
	WebhookURL string
}

type FaucetConfig struct {
	Enabled bool
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Parse(env),
		ApiServer: ApiServerConfig{
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			Port:           envOr("PORT", "8080"),
		},
		Store: StoreConfig{
			Backend:  envOr("STORE_BACKEND", "bolt"),
			BoltPath: envOr("STORE_BOLT_PATH", "htlc.db"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: envOr("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:      envOr("REDIS_ADDR", "localhost:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        envVarAtoi("REDIS_DB", 0),
			KeyPrefix: envOr("REDIS_KEY_PREFIX", "htlc"),
		},
		HTLC: HTLCConfig{
			MinTimelock:     envVarAsUint64("HTLC_MIN_TIMELOCK", defaultMinTimelock),
			MaxTimelock:     envVarAsUint64("HTLC_MAX_TIMELOCK", defaultMaxTimelock),
			ContractAddress: envOr("HTLC_CONTRACT_ADDRESS", "cosmos1htlccontract"),
		},
		Address: AddressConfig{
			Format:       envOr("ADDRESS_FORMAT", "bech32"),
			Bech32Prefix: envOr("ADDRESS_BECH32_PREFIX", "cosmos"),
			BtcNetwork:   envOr("ADDRESS_BTC_NETWORK", "mainnet"),
		},
		SwapMonitor: SwapMonitorConfig{
			Schedule:         envOr("SWAP_MONITOR_SCHEDULE", "@every 1m"),
			UptimeWebhookURL: os.Getenv("SWAP_MONITOR_UPTIME_WEBHOOK_URL"),
		},
		Faucet: FaucetConfig{
			Enabled: envVarAsBool("FAUCET_ENABLED"),
		},
		Events: EventsConfig{
			WebhookURL: os.Getenv("EVENTS_WEBHOOK_URL"),
		},
	}
}

func envOr(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

func envVarAtoi(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsUint64(envName string, fallback uint64) uint64 {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsBool(envName string) bool {
	valueStr := os.Getenv(envName)
	return valueStr == "true"
}
