package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns every Store implementation, freshly opened.
func stores(t *testing.T) map[string]kvstore.Store {
	t.Helper()

	sqliteStore, err := kvstore.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	memSQLite, err := kvstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = memSQLite.Close() })

	return map[string]kvstore.Store{
		"sqlite file":   sqliteStore,
		"sqlite memory": memSQLite,
		"memory":        kvstore.NewMemory(),
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)

			require.NoError(t, s.Set(ctx, "a", []byte("one")))
			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("one"), got)

			require.NoError(t, s.Set(ctx, "a", []byte("two")))
			got, err = s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), got, "set replaces the previous value")

			require.NoError(t, s.Delete(ctx, "a", "never-set"))
			_, err = s.Get(ctx, "a")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)

			assert.NoError(t, s.Delete(ctx))
		})
	}
}

func TestStore_SetMany(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SetMany(ctx, map[string][]byte{
				"x": []byte("1"),
				"y": []byte("2"),
				"z": []byte("3"),
			}))

			for key, want := range map[string]string{"x": "1", "y": "2", "z": "3"} {
				got, err := s.Get(ctx, key)
				require.NoError(t, err)
				assert.Equal(t, want, string(got))
			}
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	s, err := kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	require.NoError(t, s.Set(ctx, "token", []byte("abc")))
	require.NoError(t, s.Close())

	reopened, err := kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := kvstore.NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'q'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, m.Len())
}

func TestMemory_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := kvstore.NewMemory()
	assert.ErrorIs(t, m.Set(ctx, "k", nil), context.Canceled)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
