package database

import (
	"context"
	"errors"
	"time"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate username).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrUnsupportedDriver is returned for an unknown DB_DRIVER value.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Supported drivers
const (
	DriverSQLite    = "sqlite"
	DriverMySQL     = "mysql"
	DriverSurrealDB = "surrealdb"
)

// Database is the query interface of the SurrealDB driver
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Driver string

	// SQL drivers (sqlite, mysql)
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool

	// SurrealDB
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// IsSQL reports whether the configured driver is served by GORM
func (c Config) IsSQL() bool {
	return c.Driver == DriverSQLite || c.Driver == DriverMySQL
}
