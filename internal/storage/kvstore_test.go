package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvStores(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	return map[string]KeyValueStore{
		"file":   NewFileKeyValueStore(filepath.Join(t.TempDir(), "data")),
		"memory": NewMemoryKeyValueStore(),
	}
}

func TestKeyValueStore_GetMissing(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			v, found, err := kv.Get("todolist")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, v)
		})
	}
}

func TestKeyValueStore_SetReplaces(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("todolist", `[{"id":"1"}]`))
			require.NoError(t, kv.Set("todolist", `[]`))

			v, found, err := kv.Get("todolist")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[]`, v)
		})
	}
}

func TestKeyValueStore_KeysAreIndependent(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("todolist", "rich"))
			require.NoError(t, kv.Set("simple-todolist", "simple"))

			v, _, err := kv.Get("todolist")
			require.NoError(t, err)
			assert.Equal(t, "rich", v)

			v, _, err = kv.Get("simple-todolist")
			require.NoError(t, err)
			assert.Equal(t, "simple", v)
		})
	}
}

func TestKeyValueStore_Remove(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Remove("todolist"), "removing a missing key is not an error")
			require.NoError(t, kv.Set("todolist", "x"))
			require.NoError(t, kv.Remove("todolist"))

			_, found, err := kv.Get("todolist")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestKeyValueStore_RejectsUnsafeKeys(t *testing.T) {
	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "../escape", "a/b", "with space"} {
				assert.Error(t, kv.Set(key, "x"), "key %q", key)
				_, _, err := kv.Get(key)
				assert.Error(t, err, "key %q", key)
				assert.Error(t, kv.Remove(key), "key %q", key)
			}
		})
	}
}

func TestFileKeyValueStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	kv := NewFileKeyValueStore(dir)

	require.NoError(t, kv.Set("todolist", "[]"))

	info, err := os.Stat(filepath.Join(dir, "todolist.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(dir, "todolist.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must be renamed away")
}

func TestFileKeyValueStore_SharedDirectory(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileKeyValueStore(dir)
	reader := NewFileKeyValueStore(dir)

	require.NoError(t, writer.Set("todolist", "shared"))
	v, found, err := reader.Get("todolist")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "shared", v)
}

func TestFileKeyValueStore_ConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	values := []string{"alpha", "bravo", "charlie", "delta"}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			assert.NoError(t, NewFileKeyValueStore(dir).Set("todolist", v))
		}(v)
	}
	wg.Wait()

	got, found, err := NewFileKeyValueStore(dir).Get("todolist")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, values, got, "the value must be one complete write")
}
