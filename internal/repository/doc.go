// Package repository implements the data access layer for the job board.
//
// Two backends implement the same interfaces consumed by the service layer:
//
//   - GormJobRepository and GormUserRepository store rows through GORM and
//     serve the sqlite and mysql drivers. Migrate creates their tables.
//   - JobRepository and UserRepository speak SurrealQL through a
//     database.Database. MigrateSurreal defines their tables and indexes.
//
// # Conventions
//
// Lookups by key return nil, nil when the record does not exist. Callers
// decide whether absence is an error.
//
// A unique username violation surfaces as database.ErrDuplicate on both
// backends.
//
// SurrealDB records are keyed with integers (job:42) drawn from a
// per-table counter so ids look the same whichever backend is running.
// The counter increment and the CREATE run in one transaction block:
//
//	tb := database.NewTxBuilder()
//	tb.Add(nextIDStatement("job"), nil)
//	tb.Add("CREATE type::thing('job', $next) CONTENT {...}", vars)
//	result, err := database.ExecuteTransaction(ctx, db, tb)
package repository
