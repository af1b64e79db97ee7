package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/euronext-listings/internal/listing"
)

// DefaultPath is where the snapshot is written, relative to the working directory.
const DefaultPath = "data/listings.json"

// Storage handles persistence of listing snapshots
type Storage struct {
	path string
}

// New creates a new Storage instance writing to path.
// The parent directory is created if it doesn't exist.
func New(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Storage{
		path: path,
	}, nil
}

// Path returns the snapshot file path.
func (s *Storage) Path() string {
	return s.path
}

// SaveSnapshot writes snapshot to disk, replacing any existing file.
func (s *Storage) SaveSnapshot(snapshot *listing.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, snapshot); err != nil {
		return err
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// Encode writes snapshot as two-space indented JSON.
// Non-ASCII text and HTML characters are written as-is.
func Encode(w io.Writer, snapshot *listing.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
