package papertrade

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one snapshot file per account under a data directory.
// It serves as the local fallback cache: written synchronously on every
// mutation, so a crash before the debounced remote save loses at most the
// in-memory-only delta.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create data directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(accountID string) string {
	return filepath.Join(f.dir, accountID+".json")
}

// Load reads and decodes the account's snapshot file.
func (f *FileStore) Load(_ context.Context, accountID string) (*State, error) {
	file, err := os.Open(f.path(accountID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("could not open snapshot %q: %w", f.path(accountID), err)
	}
	defer file.Close()
	return DecodeState(file)
}

// Save encodes the snapshot and writes it atomically: encode to memory
// first, then rename over the previous file, so a failed encode or a crash
// mid-write never corrupts the cached copy.
func (f *FileStore) Save(_ context.Context, accountID string, s *State) error {
	var buf bytes.Buffer
	if err := EncodeState(&buf, s); err != nil {
		return err
	}
	tmp := f.path(accountID) + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write snapshot %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path(accountID)); err != nil {
		return fmt.Errorf("could not install snapshot %q: %w", f.path(accountID), err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
