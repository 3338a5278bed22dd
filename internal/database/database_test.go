package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.db")

	db, err := OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	assert.NoError(t, db.Close())
}

func TestIsPortInUse_FreePort(t *testing.T) {
	assert.False(t, isPortInUse(1))
}
