// Package database opens the job board's persistence backends.
//
// Two families are supported, selected by Config.Driver:
//
//   - "sqlite" and "mysql" are opened through GORM with OpenGorm.
//   - "surrealdb" is reached through the Database interface, implemented by
//     SurrealDB over the official Go client.
//
// # SurrealDB Queries
//
// The Database interface provides three query methods:
//   - Query: one {status, result} entry per statement
//   - QueryOne: the first record of the first statement
//   - Execute: no return value (for UPDATE/DELETE)
//
// Multi-statement writes use TxBuilder, which wraps statements in
// BEGIN/COMMIT TRANSACTION and executes them as one query.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// TranslateGormError maps GORM's errors onto the same values.
//
//	if errors.Is(err, database.ErrDuplicate) {
//	    // username taken
//	}
package database
