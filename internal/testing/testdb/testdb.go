package testdb

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/repository"
)

var counter atomic.Int64

// uniqueName generates a unique database or namespace name for test isolation
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), counter.Add(1))
}

// New returns a migrated in-memory SQLite database private to the test.
// It is closed automatically when the test finishes.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uniqueName("jobboard"))
	db, err := database.OpenGorm(database.Config{
		Driver:       database.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("testdb: failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseGorm(db) })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("testdb: failed to migrate: %v", err)
	}
	return db
}

// Surreal is an isolated SurrealDB namespace
type Surreal struct {
	DB        *database.SurrealDB
	Namespace string
}

// NewSurreal connects to the SurrealDB instance named by TEST_SURREAL_HOST
// and applies the schema in a fresh namespace. The test is skipped when the
// variable is unset.
func NewSurreal(t *testing.T) *Surreal {
	t.Helper()

	host := os.Getenv("TEST_SURREAL_HOST")
	if host == "" {
		t.Skip("TEST_SURREAL_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	namespace := uniqueName("test")
	db := database.NewSurrealDB(database.Config{
		Host:      host,
		Port:      getEnv("TEST_SURREAL_PORT", "8000"),
		User:      getEnv("TEST_SURREAL_USER", "root"),
		Password:  getEnv("TEST_SURREAL_PASSWORD", "root"),
		Namespace: namespace,
		Database:  "test",
	})
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	s := &Surreal{DB: db, Namespace: namespace}
	t.Cleanup(s.close)

	if err := repository.MigrateSurreal(ctx, db); err != nil {
		t.Fatalf("testdb: failed to apply schema: %v", err)
	}
	return s
}

// close removes the test namespace. Errors are ignored on cleanup.
func (s *Surreal) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = s.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", s.Namespace), nil)
	_ = s.DB.Close()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
