package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is the polling interval while waiting for the cross-process
// file lock.
const lockRetryDelay = 25 * time.Millisecond

// JSONFile persists Data as a single indented JSON file. In-process callers
// are serialized by a mutex; cross-process access by a sidecar flock. Writes
// go to a temp file in the same directory followed by an atomic rename, so a
// crash mid-write never leaves a half-written store visible to readers.
type JSONFile struct {
	path string
	mu   sync.RWMutex
	fl   *flock.Flock
}

// NewJSONFile creates a store backed by the given file path. The file is
// created lazily on first Update; a missing file reads as empty data.
func NewJSONFile(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &JSONFile{
		path: path,
		fl:   flock.New(path + ".lock"),
	}, nil
}

func (s *JSONFile) View(ctx context.Context, fn func(*Data) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locked, err := s.fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire read lock: %w", err)
	}
	if !locked {
		return errors.New("store read lock unavailable")
	}
	defer s.fl.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	return fn(data)
}

func (s *JSONFile) Update(ctx context.Context, fn func(*Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !locked {
		return errors.New("store write lock unavailable")
	}
	defer s.fl.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.save(data)
}

func (s *JSONFile) load() (*Data, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return &data, nil
}

func (s *JSONFile) save(data *Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
