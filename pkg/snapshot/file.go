package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/umputun/newspulse/pkg/domain"
)

// ErrNotFound returned by Load when no snapshot file exists
var ErrNotFound = errors.New("snapshot not found")

// PersistError wraps failures of writing the snapshot file
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string { return fmt.Sprintf("persist snapshot %s: %v", e.Path, e.Err) }

func (e *PersistError) Unwrap() error { return e.Err }

// File is the snapshot persisted as a JSON array of records
type File struct {
	Path string
}

// Load reads records and the file modification time. A missing file is ErrNotFound,
// a corrupted file is reported as an error and treated by callers as absent.
func (f File) Load() ([]domain.NewsRecord, time.Time, error) {
	fi, err := os.Stat(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat snapshot %s: %w", f.Path, err)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot %s: %w", f.Path, err)
	}
	var records []domain.NewsRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot %s: %w", f.Path, err)
	}
	return records, fi.ModTime(), nil
}

// Save replaces the file with records, written to a temp file and renamed
func (f File) Save(records []domain.NewsRecord) error {
	if records == nil {
		records = []domain.NewsRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return &PersistError{Path: f.Path, Err: fmt.Errorf("marshal: %w", err)}
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &PersistError{Path: f.Path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return &PersistError{Path: f.Path, Err: err}
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &PersistError{Path: f.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistError{Path: f.Path, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return &PersistError{Path: f.Path, Err: err}
	}
	return nil
}
