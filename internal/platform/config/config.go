package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	DatabaseURL       string
	StorageDriver     string // postgres or memory
	EnableDBCheck     bool
	RunMigrations     bool
	DBMaxConns        int32
	DBMaxConnLifetime time.Duration

	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	RedisURL        string // Empty disables the summary cache
	SummaryCacheTTL time.Duration

	CommitMaxRetries           uint64
	CommitRetryBaseDelay       time.Duration
	AllowPostingOutsidePeriods bool

	RateLimit          string // ulule formatted rate, e.g. "100-M"; empty disables
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_CONN_LIFETIME", "30m")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "ledger-core")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SUMMARY_CACHE_TTL", "5m")
	v.SetDefault("COMMIT_MAX_RETRIES", 3)
	v.SetDefault("COMMIT_RETRY_BASE_DELAY", "50ms")
	v.SetDefault("ALLOW_POSTING_OUTSIDE_PERIODS", false)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                       v.GetString("PORT"),
		IsProduction:               v.GetBool("IS_PRODUCTION"),
		DatabaseURL:                v.GetString("PGSQL_URL"),
		StorageDriver:              strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		EnableDBCheck:              v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:              v.GetBool("RUN_MIGRATIONS"),
		DBMaxConns:                 v.GetInt32("DB_MAX_CONNS"),
		JWTSecret:                  v.GetString("JWT_SECRET"),
		JWTIssuer:                  v.GetString("JWT_ISSUER"),
		RedisURL:                   v.GetString("REDIS_URL"),
		CommitMaxRetries:           v.GetUint64("COMMIT_MAX_RETRIES"),
		AllowPostingOutsidePeriods: v.GetBool("ALLOW_POSTING_OUTSIDE_PERIODS"),
		RateLimit:                  strings.TrimSpace(v.GetString("RATE_LIMIT")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.JWTExpiryDuration = durationOrDefault(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.SummaryCacheTTL = durationOrDefault(v, "SUMMARY_CACHE_TTL", 5*time.Minute)
	cfg.CommitRetryBaseDelay = durationOrDefault(v, "COMMIT_RETRY_BASE_DELAY", 50*time.Millisecond)
	cfg.ShutdownTimeout = durationOrDefault(v, "SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.DBMaxConnLifetime = durationOrDefault(v, "DB_MAX_CONN_LIFETIME", 30*time.Minute)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %s", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		log.Println("Warning: STORAGE_DRIVER is memory. Ledger data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
