package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Log        LogConfig
	Simulation SimulationConfig
	Yahoo      YahooConfig
	Refresh    RefreshConfig
}

// AppConfig holds the application identity shown on the root endpoint
type AppConfig struct {
	Name        string
	APIV1Prefix string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Host           string
	Addr           string // Combined host:port for convenience
	RequestTimeout time.Duration
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// SimulationConfig holds engine defaults and the price cache settings.
type SimulationConfig struct {
	Workers        int
	CacheTTL       time.Duration
	DividendPolicy model.DividendPolicy
	PriceBasis     model.PriceBasis
}

// YahooConfig holds the price provider client settings
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RefreshConfig controls the scheduled price refresh job
type RefreshConfig struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	intEnv := func(key string, def int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil || v < 1 {
			errs = append(errs, fmt.Sprintf("%s must be a positive integer", key))
			return def
		}
		return v
	}
	boolEnv := func(key string, def bool) bool {
		v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a boolean", key))
			return def
		}
		return v
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ETF Investment Simulator"),
			APIV1Prefix: getEnv("API_V1_PREFIX", "/api/v1"),
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5001"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			RequestTimeout: time.Duration(intEnv("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/etf_simulator.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: boolEnv("LOG_PRETTY", false),
		},
		Simulation: SimulationConfig{
			Workers:        intEnv("SIM_WORKERS", 4),
			CacheTTL:       time.Duration(intEnv("CACHE_TTL_SECONDS", 86400)) * time.Second,
			DividendPolicy: model.DividendPolicy(getEnv("SIM_DIVIDEND_POLICY", string(model.DividendReinvest))),
			PriceBasis:     model.PriceBasis(getEnv("SIM_PRICE_BASIS", string(model.PriceBasisClose))),
		},
		Yahoo: YahooConfig{
			BaseURL: strings.TrimRight(getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"), "/"),
			Timeout: time.Duration(intEnv("YAHOO_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Refresh: RefreshConfig{
			Enabled:  boolEnv("PRICE_REFRESH_ENABLED", false),
			Schedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 30 23 * * MON-FRI"),
		},
	}

	if !config.Simulation.DividendPolicy.Valid() {
		errs = append(errs, fmt.Sprintf("SIM_DIVIDEND_POLICY %q is not one of reinvest, accumulate", config.Simulation.DividendPolicy))
	}
	if !config.Simulation.PriceBasis.Valid() {
		errs = append(errs, fmt.Sprintf("SIM_PRICE_BASIS %q is not one of close, adjusted_close", config.Simulation.PriceBasis))
	}
	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", config.Log.Level))
	}
	if !strings.HasPrefix(config.App.APIV1Prefix, "/") {
		errs = append(errs, "API_V1_PREFIX must start with /")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
