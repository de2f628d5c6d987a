package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemorySharesOneDatabase(t *testing.T) {
	database, err := Open("")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`CREATE TABLE probe (v INTEGER)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO probe (v) VALUES (1)`)
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM probe`).Scan(&n))
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, database.Stats().MaxOpenConnections)
}

func TestOpenFileUsesWAL(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "carte.db"))
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
