package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Decimal   numeric.Context
	Scheduler SchedulerConfig
	IBKR      IBKRConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig holds the internal API key. An empty key disables the check.
type SecurityConfig struct {
	InternalAPIKey string
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// SchedulerConfig holds the cron expressions for background jobs.
type SchedulerConfig struct {
	Enabled              bool
	PriceRefreshSchedule string
	SnapshotSchedule     string
}

// IBKRConfig holds the Flex Web Service credentials. Sync is disabled when
// either is missing.
type IBKRConfig struct {
	FlexToken   string
	FlexQueryID int
	// SyncSchedule is empty unless statements should be pulled on a schedule.
	SyncSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	pretty, err := getEnvBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}
	schedulerEnabled, err := getEnvBool("SCHEDULER_ENABLED", true)
	if err != nil {
		return nil, err
	}
	flexQueryID, err := getEnvInt("IBKR_FLEX_QUERY_ID", 0)
	if err != nil {
		return nil, err
	}
	decimalCtx, err := loadDecimal()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fintu.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Security: SecurityConfig{
			InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Decimal: decimalCtx,
		Scheduler: SchedulerConfig{
			Enabled:              schedulerEnabled,
			PriceRefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 */15 * * * *"),
			SnapshotSchedule:     getEnv("SNAPSHOT_SCHEDULE", "0 5 0 * * *"),
		},
		IBKR: IBKRConfig{
			FlexToken:    os.Getenv("IBKR_FLEX_TOKEN"),
			FlexQueryID:  flexQueryID,
			SyncSchedule: os.Getenv("IBKR_SYNC_SCHEDULE"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func loadDecimal() (numeric.Context, error) {
	def := numeric.DefaultContext()

	precision := def.Precision
	if raw := os.Getenv("DECIMAL_PRECISION"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return numeric.Context{}, fmt.Errorf("invalid DECIMAL_PRECISION %q: %w", raw, err)
		}
		precision = int32(p)
	}

	rounding := def.Rounding
	if raw := os.Getenv("DECIMAL_ROUNDING"); raw != "" {
		r, err := numeric.ParseRounding(raw)
		if err != nil {
			return numeric.Context{}, fmt.Errorf("invalid DECIMAL_ROUNDING: %w", err)
		}
		rounding = r
	}

	ctx, err := numeric.NewContext(precision, rounding)
	if err != nil {
		return numeric.Context{}, fmt.Errorf("invalid decimal configuration: %w", err)
	}
	return ctx, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return i, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
