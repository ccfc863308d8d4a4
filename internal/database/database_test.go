package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ============================================================================
// TxBuilder
// ============================================================================

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	m1 := tb.Add("UPDATE type::thing('job', $id) SET title = $title", map[string]interface{}{"id": 1, "title": "a"})
	m2 := tb.Add("DELETE type::thing('job', $id)", map[string]interface{}{"id": 2})

	query, vars := tb.Build()
	assert.Equal(t, 2, tb.Len())
	assert.Contains(t, query, "BEGIN TRANSACTION;")
	assert.Contains(t, query, "COMMIT TRANSACTION;")
	assert.NotContains(t, query, "$id)")
	assert.Contains(t, query, "$"+m1["id"])
	assert.Contains(t, query, "$"+m2["id"])
	assert.NotEqual(t, m1["id"], m2["id"])
	assert.Equal(t, 1, vars[m1["id"]])
	assert.Equal(t, 2, vars[m2["id"]])
	assert.Equal(t, "a", vars[m1["title"]])
}

func TestTxBuilder_LeavesLongerNamesAndLetBindings(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	mapping := tb.Add("LET $n = 1; SELECT * FROM job WHERE id = $id AND id INSIDE $id_list", map[string]interface{}{"id": 5})
	query, _ := tb.Build()

	assert.Contains(t, query, "$id_list")
	assert.Contains(t, query, "$n = 1")
	assert.Contains(t, query, "id = $"+mapping["id"]+" ")
}

func TestTxBuilder_EmptyBuild(t *testing.T) {
	t.Parallel()
	query, vars := NewTxBuilder().Build()
	assert.Empty(t, query)
	assert.Nil(t, vars)

	results, err := ExecuteTransaction(context.Background(), nil, NewTxBuilder())
	assert.NoError(t, err)
	assert.Nil(t, results)
}

// ============================================================================
// GORM
// ============================================================================

func TestOpenGorm_UnsupportedDriver(t *testing.T) {
	t.Parallel()
	_, err := OpenGorm(Config{Driver: "postgres"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpenGorm_SQLiteInMemory(t *testing.T) {
	t.Parallel()
	db, err := OpenGorm(Config{Driver: DriverSQLite, DSN: "file:opengorm?mode=memory&cache=shared", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseGorm(db) })

	assert.NoError(t, PingGorm(context.Background(), db))
}

func TestTranslateGormError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, TranslateGormError(nil))
	assert.ErrorIs(t, TranslateGormError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, TranslateGormError(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, TranslateGormError(errors.New("UNIQUE constraint failed: users.username")), ErrDuplicate)
	assert.ErrorIs(t, TranslateGormError(errors.New("Error 1062: Duplicate entry 'acme' for key 'username'")), ErrDuplicate)

	other := errors.New("disk I/O error")
	assert.Same(t, other, TranslateGormError(other))
}

func TestConfig_IsSQL(t *testing.T) {
	t.Parallel()
	assert.True(t, Config{Driver: DriverSQLite}.IsSQL())
	assert.True(t, Config{Driver: DriverMySQL}.IsSQL())
	assert.False(t, Config{Driver: DriverSurrealDB}.IsSQL())
}

func TestMySQLDSN_CountsMatchedRows(t *testing.T) {
	t.Parallel()

	dsn, err := mysqlDSN("app:secret@tcp(db:3306)/jobboard")
	require.NoError(t, err)
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tcp(db:3306)/jobboard")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
