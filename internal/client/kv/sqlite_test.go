package kv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteBackend(db)
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesPreferencesTable(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "preferences"))
}

func TestInitDatabase_Reopen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, tableExists(t, db, "preferences"))
}

func TestSQLite_GetMissing_ReturnsNilNil(t *testing.T) {
	b := setupSQLite(t)
	v, err := b.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLite_SetUpsertsValue(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("old")))
	require.NoError(t, b.Set(ctx, "k", []byte("new")))

	v, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLite_ApplySetsAndDeletes(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "gone", []byte("1")))

	err := b.Apply(ctx, Batch{
		Set:    map[string][]byte{"a": []byte("1"), "b": []byte("2")},
		Delete: []string{"gone"},
	})
	require.NoError(t, err)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestSQLite_ApplyOnClosedDB_LeavesNothingBehind(t *testing.T) {
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	b := NewSQLiteBackend(db)
	require.NoError(t, db.Close())

	err = b.Apply(context.Background(), Batch{Set: map[string][]byte{"a": []byte("1")}})
	assert.Error(t, err)
}

func TestSQLite_DeleteAndClear(t *testing.T) {
	b := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "a", []byte("1")))
	require.NoError(t, b.Set(ctx, "b", []byte("2")))

	require.NoError(t, b.Delete(ctx, "a"))
	v, err := b.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, b.Delete(ctx, "missing"))

	require.NoError(t, b.Clear(ctx))
	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
