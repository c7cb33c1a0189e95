// Package storage holds uploaded PDF payloads on the local filesystem.
// Document records in the store reference payloads by stored filename only;
// this package is the one place that turns those names into paths.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"parakeet/internal/domain"
)

// Local is a directory-backed payload store. Every accessor resolves names
// through the same confinement check, so a name that would escape the
// directory reads as not found rather than as a filesystem error.
type Local struct {
	dir string
}

// NewLocal creates the payload directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the payload directory.
func (l *Local) Dir() string { return l.dir }

// resolve maps a stored filename to an absolute path. Names carrying path
// separators or upward traversal never resolve.
func (l *Local) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !filepath.IsLocal(name) {
		return "", &domain.NotFoundError{Message: "file not found"}
	}
	return filepath.Join(l.dir, name), nil
}

// Path returns the on-disk path for a stored filename, or ErrNotFound when
// the name does not resolve or no file exists.
func (l *Local) Path(name string) (string, error) {
	path, err := l.resolve(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", &domain.NotFoundError{Message: "file not found"}
		}
		return "", fmt.Errorf("stat payload: %w", err)
	}
	return path, nil
}

// Save writes a new payload and returns the byte count.
func (l *Local) Save(name string, r io.Reader) (int64, error) {
	path, err := l.resolve(name)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create payload: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write payload: %w", err)
	}
	return n, nil
}

// Replace swaps the payload content in place via a temp file and rename, so
// concurrent readers see either the old bytes or the new, never a mix.
func (l *Local) Replace(name string, r io.Reader) error {
	path, err := l.Path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(l.dir, ".payload-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp payload: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp payload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace payload: %w", err)
	}
	return nil
}

// Open returns a reader over the payload, or ErrNotFound.
func (l *Local) Open(name string) (io.ReadCloser, error) {
	path, err := l.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	return f, nil
}

// Remove deletes a payload. A missing file is not an error; delete flows
// stay idempotent.
func (l *Local) Remove(name string) error {
	path, err := l.resolve(name)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove payload: %w", err)
	}
	return nil
}
