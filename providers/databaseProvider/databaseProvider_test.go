package databaseProvider

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteProviderMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "lending.db")

	p, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	defer p.Close()

	var count int
	err = p.DB().Get(&count, `SELECT count(*) FROM snapshots`)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNewSQLiteProviderReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lending.db")

	first, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	_, err = first.DB().Exec(`INSERT INTO snapshots (name, payload, saved_at) VALUES ('equipment', '[]', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	defer second.Close()

	var payload string
	require.NoError(t, second.DB().Get(&payload, `SELECT payload FROM snapshots WHERE name = 'equipment'`))
	assert.Equal(t, "[]", payload)
}
