package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	NodeEnv         string
	Port            string
	JWTSecret       string
	TokenTTL        time.Duration
	DefaultPassword string
	NodeID          int64
	CORSOrigins     []string
	Store           StoreConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Log             LogConfig
	Engine          EngineConfig
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig holds switches for the record engine
type EngineConfig struct {
	PurgeOrphansOnDelete bool
	FreshStartOnBoot     bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite))
	switch driver {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	nodeEnv := getEnv("NODE_ENV", "development")
	defaultFormat := "console"
	if nodeEnv == "production" {
		defaultFormat = "json"
	}

	return &Config{
		NodeEnv:         nodeEnv,
		Port:            getEnv("PORT", "3001"),
		JWTSecret:       jwtSecret,
		TokenTTL:        getEnvDuration("TOKEN_TTL", 12*time.Hour),
		DefaultPassword: getEnv("DEFAULT_PASSWORD", "admin123"),
		NodeID:          int64(getEnvInt("NODE_ID", 1)),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		Store: StoreConfig{
			Driver:     driver,
			SQLitePath: getEnv("SQLITE_PATH", "recoverydesk.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "recoverydesk"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "recoverydesk:"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultFormat),
		},
		Engine: EngineConfig{
			PurgeOrphansOnDelete: getEnvBool("PURGE_ORPHANS_ON_DELETE", false),
			FreshStartOnBoot:     getEnvBool("FRESH_START_ON_BOOT", false),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
