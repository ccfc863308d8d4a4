// Package testdb provides database fixtures for repository and handler tests.
//
// # SQLite
//
// New returns a GORM handle on a private in-memory SQLite database with the
// schema migrated. No external service is needed.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.New(t)
//	    repo := repository.NewGormJobRepository(db)
//	}
//
// # SurrealDB
//
// NewSurreal connects to a running SurrealDB and isolates the test in its
// own namespace, removed on cleanup. Tests using it are skipped unless
// TEST_SURREAL_HOST is set (TEST_SURREAL_PORT, TEST_SURREAL_USER and
// TEST_SURREAL_PASSWORD default to 8000, root, root).
package testdb
