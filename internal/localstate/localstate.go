// Package localstate persists small pieces of client-local state (the cart,
// the admin session flag) as JSON files keyed by a fixed namespace, so they
// survive process restarts.
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

// Save marshals v and writes it atomically (temp file + rename), so a crash
// mid-write never corrupts existing state.
func (s *Store) Save(namespace string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s state: %w", namespace, err)
	}

	tmp, err := os.CreateTemp(s.dir, namespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s state: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(namespace)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist %s state: %w", namespace, err)
	}

	return nil
}

// Load unmarshals the namespace's state into v. A missing file leaves v
// untouched and is not an error.
func (s *Store) Load(namespace string, v interface{}) error {
	data, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s state: %w", namespace, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s state: %w", namespace, err)
	}

	return nil
}
