package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// SnapshotInterval is the number of events since the last snapshot that
	// triggers a new checkpoint for an aggregate.
	SnapshotInterval int64

	// CommandRateLimit is the rate limit applied to the command endpoints,
	// in ulule/limiter format (e.g. "100-M" for 100 per minute).
	CommandRateLimit string

	// RequestTimeout bounds each store operation issued while serving a
	// request.
	RequestTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SNAPSHOT_INTERVAL", 50)
	viper.SetDefault("COMMAND_RATE_LIMIT", "100-M")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.SnapshotInterval = viper.GetInt64("SNAPSHOT_INTERVAL")
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 50
		log.Printf("Warning: invalid SNAPSHOT_INTERVAL, defaulting to %d\n", cfg.SnapshotInterval)
	}

	cfg.CommandRateLimit = viper.GetString("COMMAND_RATE_LIMIT")

	timeoutStr := viper.GetString("REQUEST_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: invalid value for REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}
