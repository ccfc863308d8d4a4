package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/forgo/jobboard/internal/cache"
	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/pkg/jwt"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Cache     CacheConfig
	Jobs      JobsConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig selects a driver and holds its connection settings.
// sqlite and mysql use DSN; surrealdb uses the host fields.
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool

	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds JWT signing settings. Key paths select RS256; otherwise
// Secret is used with HS256.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Secret         string
	Issuer         string
	Audience       string
	ExpirationMins int
}

// AuthConfig holds account settings
type AuthConfig struct {
	BcryptCost int
}

// CacheConfig holds in-process cache settings
type CacheConfig struct {
	MaxEntries      int
	CleanupInterval time.Duration
	ListingSliding  time.Duration
	ListingAbsolute time.Duration
	StatsInterval   time.Duration // 0 disables the stats reporter
}

// JobsConfig holds job posting rules
type JobsConfig struct {
	EnforceOwnership bool
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("SERVER_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", database.DriverSQLite),
			DSN:             getEnv("DB_DSN", "file:jobboard.db?_foreign_keys=on"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			LogQueries:      getBoolEnv("DB_LOG_QUERIES", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "8000"),
			Namespace:       getEnv("DB_NAMESPACE", "jobboard"),
			Database:        getEnv("DB_DATABASE", "main"),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Secret:         getEnv("JWT_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "jobboard"),
			Audience:       getEnv("JWT_AUDIENCE", "jobboard-api"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 60),
		},
		Auth: AuthConfig{
			BcryptCost: getIntEnv("AUTH_BCRYPT_COST", 12),
		},
		Cache: CacheConfig{
			MaxEntries:      getIntEnv("CACHE_MAX_ENTRIES", 10000),
			CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", time.Minute),
			ListingSliding:  getDurationEnv("CACHE_LISTING_SLIDING", 180*time.Second),
			ListingAbsolute: getDurationEnv("CACHE_LISTING_ABSOLUTE", 30*time.Minute),
			StatsInterval:   getDurationEnv("CACHE_STATS_INTERVAL", 5*time.Minute),
		},
		Jobs: JobsConfig{
			EnforceOwnership: getBoolEnv("JOBS_ENFORCE_OWNERSHIP", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 20),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, err)
	}

	// JWT validation
	hasKeys := c.JWT.PrivateKeyPath != "" || c.JWT.PublicKeyPath != ""
	if hasKeys && (c.JWT.PrivateKeyPath == "" || c.JWT.PublicKeyPath == "") {
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together"))
	}
	if !hasKeys {
		if c.JWT.Secret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when no JWT key paths are set"))
		} else if len(c.JWT.Secret) < 32 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
		}
	}
	if c.IsProduction() && !hasKeys {
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	// Cache validation
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("CACHE_MAX_ENTRIES must not be negative"))
	}
	if c.Cache.ListingSliding < 0 || c.Cache.ListingAbsolute < 0 {
		errs = append(errs, errors.New("CACHE_LISTING_SLIDING and CACHE_LISTING_ABSOLUTE must not be negative"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the settings required by the selected driver
func (d DatabaseConfig) Validate() error {
	var missing []string
	switch d.Driver {
	case database.DriverSQLite, database.DriverMySQL:
		if d.DSN == "" {
			missing = append(missing, "DB_DSN")
		}
	case database.DriverSurrealDB:
		if d.Host == "" {
			missing = append(missing, "DB_HOST")
		}
		if d.Port == "" {
			missing = append(missing, "DB_PORT")
		}
		if d.Namespace == "" {
			missing = append(missing, "DB_NAMESPACE")
		}
		if d.Database == "" {
			missing = append(missing, "DB_DATABASE")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of %s, %s, %s, got '%s'",
			database.DriverSQLite, database.DriverMySQL, database.DriverSurrealDB, d.Driver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("database (%s): missing required fields: %s", d.Driver, strings.Join(missing, ", "))
	}
	return nil
}

// ToDatabase converts the settings for the database package
func (d DatabaseConfig) ToDatabase() database.Config {
	return database.Config{
		Driver:          d.Driver,
		DSN:             d.DSN,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		LogQueries:      d.LogQueries,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Namespace:       d.Namespace,
		Database:        d.Database,
	}
}

// ToJWT converts the settings for the jwt package
func (j JWTConfig) ToJWT() jwt.Config {
	return jwt.Config{
		PrivateKeyPath: j.PrivateKeyPath,
		PublicKeyPath:  j.PublicKeyPath,
		Secret:         j.Secret,
		Issuer:         j.Issuer,
		Audience:       j.Audience,
		ExpirationMins: j.ExpirationMins,
	}
}

// ListingPolicy is the cache policy for job listings and single jobs
func (c CacheConfig) ListingPolicy() cache.Policy {
	return cache.Policy{
		Sliding:  c.ListingSliding,
		Absolute: c.ListingAbsolute,
		Priority: cache.PriorityNormal,
	}
}

// SlogLevel parses LOG_LEVEL
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", c.LogLevel)
	}
	return level, nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
