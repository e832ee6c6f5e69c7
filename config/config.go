package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings and the upstream market-data provider.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	REQUEST_TIMEOUT=15s
//	UPSTREAM_BASE_URL=https://query2.finance.yahoo.com
//	UPSTREAM_TIMEOUT=10s
//	UPSTREAM_MAX_PARALLEL=8
//	PRICE_WINDOW_DAYS=365
//	LOG_LEVEL=info
//	LOG_PRETTY=false
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Upstream UpstreamConfig // Market-data provider settings
	Prices   PricesConfig   // Price history defaults
	Log      LogConfig      // Logger settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Deadline applied to every request context
}

// UpstreamConfig defines how the gateway talks to the market-data provider.
//
// Fields:
//   - BaseURL: scheme and host of the provider API.
//   - Timeout: per-call HTTP timeout.
//   - UserAgent: sent with every call; the provider rejects empty agents.
//   - Crumb, Cookie: optional session values some provider endpoints require.
//   - MaxParallel: upper bound of concurrent calls within one multi-ticker request.
type UpstreamConfig struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	Crumb       string
	Cookie      string
	MaxParallel int
}

// PricesConfig holds defaults for the close-price endpoints.
type PricesConfig struct {
	WindowDays int // Length of the trailing window used by POST /stocks/close_prices
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")

	viper.SetDefault("UPSTREAM_BASE_URL", "https://query2.finance.yahoo.com")
	viper.SetDefault("UPSTREAM_TIMEOUT", "10s")
	viper.SetDefault("UPSTREAM_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0")
	viper.SetDefault("UPSTREAM_CRUMB", "")
	viper.SetDefault("UPSTREAM_COOKIE", "")
	viper.SetDefault("UPSTREAM_MAX_PARALLEL", 8)

	viper.SetDefault("PRICE_WINDOW_DAYS", 365)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Upstream: UpstreamConfig{
			BaseURL:     viper.GetString("UPSTREAM_BASE_URL"),
			Timeout:     viper.GetDuration("UPSTREAM_TIMEOUT"),
			UserAgent:   viper.GetString("UPSTREAM_USER_AGENT"),
			Crumb:       viper.GetString("UPSTREAM_CRUMB"),
			Cookie:      viper.GetString("UPSTREAM_COOKIE"),
			MaxParallel: viper.GetInt("UPSTREAM_MAX_PARALLEL"),
		},
		Prices: PricesConfig{
			WindowDays: viper.GetInt("PRICE_WINDOW_DAYS"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
	}

	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing or out of range.
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}

// missingFields lists the variables whose values cannot be used to start the service.
func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Server.RequestTimeout <= 0 {
		missing = append(missing, "REQUEST_TIMEOUT")
	}
	if cfg.Upstream.BaseURL == "" {
		missing = append(missing, "UPSTREAM_BASE_URL")
	}
	if cfg.Upstream.Timeout <= 0 {
		missing = append(missing, "UPSTREAM_TIMEOUT")
	}
	if cfg.Upstream.MaxParallel < 1 {
		missing = append(missing, "UPSTREAM_MAX_PARALLEL")
	}
	if cfg.Prices.WindowDays < 1 {
		missing = append(missing, "PRICE_WINDOW_DAYS")
	}

	return missing
}
