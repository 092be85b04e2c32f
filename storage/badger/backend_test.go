package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := OpenBackend(file, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestScanAndCountPrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, k := range []string{"a:3", "a:1", "a:2", "b:1"} {
			if err := wb.Set([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	}))

	ctx := context.Background()
	n, err := backend.countPrefix(ctx, []byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var seen []string
	err = backend.scanPrefix(ctx, []byte("a:"), func(key, _ []byte) (bool, error) {
		seen = append(seen, string(key))
		return len(seen) < 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "a:2"}, seen)

	require.NoError(t, backend.DropPrefix([]byte("a:")))
	n, err = backend.countPrefix(ctx, []byte("a:"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScanPrefix_CancelledContext(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("a:1"), []byte("v")); err != nil {
			return err
		}
		return tx.Commit()
	}, true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = backend.scanPrefix(ctx, []byte("a:"), func(_, _ []byte) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, context.Canceled)
}
