package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mediwallet/internal/store"
	"mediwallet/internal/store/sqlite"
)

func newSQLite(t *testing.T) *store.Conn {
	t.Helper()
	conn := sqlite.NewConn(filepath.Join(t.TempDir(), "svc.db"), nil)
	require.NoError(t, conn.Initialize(context.Background()))
	t.Cleanup(func() { conn.Close() })
	return conn
}
