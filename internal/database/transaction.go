package database

import (
	"context"
	"fmt"
	"strings"
)

// TxBuilder assembles several SurrealQL statements into one
// BEGIN/COMMIT block. Variables passed to Add are renamed ($id -> $v1_id)
// so statements from different sources cannot collide. Variables bound
// inside the block with LET are left alone.
//
//	tb := NewTxBuilder()
//	tb.Add("LET $n = (UPSERT sequence:job SET value += 1 RETURN AFTER)[0].value", nil)
//	tb.Add("CREATE type::thing('job', $n) CONTENT $job", map[string]interface{}{"job": row})
//	results, err := ExecuteTransaction(ctx, db, tb)
//
// There is no isolation between Add calls; everything runs at execute time.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter int
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement and returns the old-to-new variable names
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	mapping := make(map[string]string, len(vars))
	for name, value := range vars {
		tb.varCounter++
		renamed := fmt.Sprintf("v%d_%s", tb.varCounter, name)
		query = replaceVar(query, name, renamed)
		tb.vars[renamed] = value
		mapping[name] = renamed
	}

	tb.statements = append(tb.statements, query)
	return mapping
}

// Len returns the number of statements added so far
func (tb *TxBuilder) Len() int {
	return len(tb.statements)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction runs the built block and returns one result per statement
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}

// replaceVar renames $name without touching longer names sharing the prefix
// ($id must not rewrite $id_list)
func replaceVar(query, name, renamed string) string {
	token := "$" + name
	var sb strings.Builder
	for {
		i := strings.Index(query, token)
		if i < 0 {
			sb.WriteString(query)
			return sb.String()
		}
		end := i + len(token)
		sb.WriteString(query[:i])
		if end < len(query) && isIdentByte(query[end]) {
			sb.WriteString(token)
		} else {
			sb.WriteString("$" + renamed)
		}
		query = query[end:]
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
