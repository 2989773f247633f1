package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/gofrs/flock"
)

// validKeyPattern restricts keys to names that are safe as file names.
var validKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// KeyValueStore is an opaque string store addressed by fixed keys. Values are
// whole snapshots: Set always replaces the previous value.
type KeyValueStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

func checkKey(key string) error {
	if !validKeyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

type fileKeyValueStore struct {
	dir string
}

// NewFileKeyValueStore creates a KeyValueStore that keeps each key in its own
// <key>.json file under dir. Writes go through a temporary file and a rename,
// and every access holds an exclusive lock on <key>.lock so several processes
// can share the directory.
func NewFileKeyValueStore(dir string) KeyValueStore {
	return &fileKeyValueStore{dir: dir}
}

func (s *fileKeyValueStore) valuePath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *fileKeyValueStore) lock(key string) (*flock.Flock, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	fl := flock.New(filepath.Join(s.dir, "."+key+".lock"))
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("locking key %s: %w", key, err)
	}
	return fl, nil
}

func (s *fileKeyValueStore) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return "", false, nil
	}
	fl, err := s.lock(key)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(s.valuePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *fileKeyValueStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	fl, err := s.lock(key)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing key %s: creating temp file: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: closing temp file: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.valuePath(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing key %s: replacing value: %w", key, err)
	}
	return nil
}

func (s *fileKeyValueStore) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil
	}
	fl, err := s.lock(key)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	if err := os.Remove(s.valuePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

type memoryKeyValueStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKeyValueStore creates a KeyValueStore that lives only in memory.
func NewMemoryKeyValueStore() KeyValueStore {
	return &memoryKeyValueStore{values: make(map[string]string)}
}

func (s *memoryKeyValueStore) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryKeyValueStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryKeyValueStore) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
