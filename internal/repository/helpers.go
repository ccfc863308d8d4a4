package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/jobboard/internal/database"
)

// surrealSchema is applied by MigrateSurreal. Every statement is idempotent.
var surrealSchema = []string{
	"DEFINE TABLE IF NOT EXISTS sequence SCHEMALESS",
	"DEFINE TABLE IF NOT EXISTS job SCHEMALESS",
	"DEFINE INDEX IF NOT EXISTS job_employer ON job FIELDS employer_id",
	"DEFINE TABLE IF NOT EXISTS user SCHEMALESS",
	"DEFINE INDEX IF NOT EXISTS user_username ON user FIELDS username UNIQUE",
}

// MigrateSurreal defines the tables and indexes used by the SurrealDB
// repositories
func MigrateSurreal(ctx context.Context, db database.Database) error {
	for _, stmt := range surrealSchema {
		if err := db.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("apply %q: %w", stmt, err)
		}
	}
	return nil
}

// nextIDStatement increments a per-table counter and binds it to $next.
// Numeric ids keep SurrealDB records compatible with the int64 ids used
// everywhere else.
func nextIDStatement(table string) string {
	return fmt.Sprintf("LET $next = (UPSERT sequence:%s SET value = (value OR 0) + 1 RETURN AFTER)[0].value", table)
}

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "already contains")
}

// recordsOf returns the records of one {status, result} query entry
func recordsOf(entry interface{}) []map[string]interface{} {
	resp, ok := entry.(map[string]interface{})
	if !ok {
		return nil
	}
	if _, wrapped := resp["status"]; !wrapped {
		return []map[string]interface{}{resp}
	}

	var raw []interface{}
	switch v := resp["result"].(type) {
	case []interface{}:
		raw = v
	case map[string]interface{}:
		raw = []interface{}{v}
	}

	out := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// firstRecords returns the records produced by the first statement
func firstRecords(results []interface{}) []map[string]interface{} {
	if len(results) == 0 {
		return nil
	}
	return recordsOf(results[0])
}

// lastRecord returns the first record of the last statement that produced
// one. Used for transaction blocks where LET entries come back empty.
func lastRecord(results []interface{}) (map[string]interface{}, error) {
	for i := len(results) - 1; i >= 0; i-- {
		if recs := recordsOf(results[i]); len(recs) > 0 {
			return recs[0], nil
		}
	}
	return nil, errors.New("no record returned")
}

// recordNumber extracts the numeric part of a record id such as job:42
func recordNumber(id interface{}) int64 {
	switch v := id.(type) {
	case models.RecordID:
		return toInt64(v.ID)
	case *models.RecordID:
		if v != nil {
			return toInt64(v.ID)
		}
	case string:
		if i := strings.LastIndexByte(v, ':'); i >= 0 {
			v = v[i+1:]
		}
		n, _ := strconv.ParseInt(strings.Trim(v, "`⟨⟩"), 10, 64)
		return n
	case map[string]interface{}:
		// {"tb": "job", "id": 42}
		return toInt64(v["id"])
	}
	return toInt64(id)
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

// parseTime parses time from various formats
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getIntPtr extracts an optional integer; NONE and NULL give nil
func getIntPtr(m map[string]interface{}, key string) *int {
	switch v := m[key].(type) {
	case int, int32, int64, uint32, uint64, float32, float64:
		n := int(toInt64(v))
		return &n
	}
	return nil
}

// intPtrValue converts an optional int into a query variable
func intPtrValue(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
