package counter

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

// fileRecord is the on-disk shape of the counter
type fileRecord struct {
	ID int64 `json:"id"`
}

// File keeps the counter in a small json file. Read-modify-write is guarded by a mutex
// and by an advisory lock on "<path>.lock" for other processes sharing the file.
type File struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewFile makes file counter, directory of the path is created if missing
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("empty counter file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create counter dir: %w", err)
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

// Next advances the counter stored in the file and returns the new id
func (f *File) Next(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	locked, err := f.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return 0, fmt.Errorf("lock counter file: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("can't lock counter file %s", f.path)
	}
	defer func() { _ = f.lock.Unlock() }()

	rec, err := f.read()
	if err != nil {
		return 0, err
	}
	rec.ID = Advance(rec.ID)
	if err := f.write(rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// Value returns the stored id without advancing
func (f *File) Value() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	return rec.ID, err
}

func (f *File) read() (fileRecord, error) {
	var rec fileRecord
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("read counter file: %w", err)
	}
	if len(data) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse counter file %s: %w", f.path, err)
	}
	return rec, nil
}

// write goes through a temp file so a crash never leaves a truncated counter
func (f *File) write(rec fileRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal counter: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write counter file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename counter file: %w", err)
	}
	return nil
}
