package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a Memory store loaded from a single JSON file and written back at Close.
// It is meant for one command line run at a time: inserts stay in memory until Close, and
// concurrent processes sharing the file overwrite each other's snapshots.
type FileStore struct {
	*Memory
	path string
}

// OpenFile loads path if it exists, or starts empty.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{Memory: NewMemory(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if len(data) == 0 {
		return fs, nil
	}

	var collections map[string][]Document
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("parsing store file %s: %w", path, err)
	}
	fs.load(collections)
	return fs, nil
}

// Close writes the snapshot once for the whole run.
func (f *FileStore) Close() error {
	return f.flush()
}

// flush writes to a temporary file and renames it over the target.
func (f *FileStore) flush() error {
	collections, err := f.snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(collections, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
