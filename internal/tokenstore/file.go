// ABOUTME: File-backed credential store under the console config directory
// ABOUTME: Persists the cookie-shaped record as JSON and drops it once expired

package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the name of the credential file inside the config directory.
const FileName = "token.json"

// FileStore persists the credential to <dir>/token.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
	cfg settings
}

// NewFile creates a store rooted at dir. The directory is created on first Set.
func NewFile(dir string, opts ...Option) *FileStore {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{dir: dir, cfg: cfg}
}

// Path returns the credential file location.
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, FileName)
}

// Set writes the record through a temp file and rename so concurrent readers
// never observe a partially written file.
func (f *FileStore) Set(token string) error {
	data, err := json.MarshalIndent(f.cfg.newRecord(token), "", "  ")
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, FileName+".*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Get reads the record on every call so a logout from another process is seen
// by the next request.
func (f *FileStore) Get() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Ignoring unreadable token file", "path", f.Path(), "error", err)
		}
		return "", false
	}
	if rec.Expired(f.cfg.now()) {
		if err := os.Remove(f.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Failed to remove expired token", "path", f.Path(), "error", err)
		}
		return "", false
	}
	return rec.Value, true
}

func (f *FileStore) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Record returns the stored record without applying expiry.
func (f *FileStore) Record() (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStore) read() (Record, error) {
	b, err := os.ReadFile(f.Path())
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode token file: %w", err)
	}
	if rec.Name != Name {
		return Record{}, fmt.Errorf("token file holds %q, want %q", rec.Name, Name)
	}
	return rec, nil
}
