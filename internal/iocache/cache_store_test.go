package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitmine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "log_snapshot_cache", false},
		{"leading underscore", "_cache", false},
		{"digits after first", "cache2", false},
		{"empty", "", true},
		{"leading digit", "2cache", true},
		{"injection", "cache; DROP TABLE users", true},
		{"dash", "log-cache", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholders(schema.MySQLBackend, 1))
	assert.Equal(t, "$1, $2", placeholders(schema.PostgreSQLBackend, 2))
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: snapshotTable, backend: tt.backend}
			assert.Contains(t, store.getUpsertQuery(), tt.contains)
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery(snapshotTable, schema.SQLiteBackend), "BLOB")
	assert.Contains(t, getCreateTableQuery(snapshotTable, schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateTableQuery(snapshotTable, schema.PostgreSQLBackend), "BYTEA")
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad table", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore(snapshotTable, "redis", "")
	assert.Error(t, err)
}

func TestSQLiteCacheStoreOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(snapshotTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	require.NoError(t, store.Set("k1", []byte("first"), 1, 100))
	require.NoError(t, store.Set("k1", []byte("second"), 2, 200))
	require.NoError(t, store.Set("k2", []byte("other"), 1, 50))

	value, version, ts, err := store.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(50, 0), status.OldestEntryTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestNoneCacheStore(t *testing.T) {
	store, err := NewCacheStore(snapshotTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}
