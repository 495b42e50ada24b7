package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abdidvp/storediag/internal/adapters/outbound/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := store.New(ctx, store.Options{DataDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)

	s, err = store.New(ctx, store.Options{Backend: store.BackendSQLite, DSN: filepath.Join(dir, "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = store.New(ctx, store.Options{Backend: store.BackendPostgres})
	assert.ErrorContains(t, err, "dsn")

	_, err = store.New(ctx, store.Options{Backend: "tape"})
	assert.ErrorContains(t, err, "unknown store backend")
}
