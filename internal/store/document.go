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

	"github.com/proboots/storefront/internal/domain"
)

// DocumentFile persists the catalog as one pretty-printed JSON file.
// Each Save replaces the file atomically via rename.
type DocumentFile struct {
	mu   sync.Mutex
	path string
}

// NewDocumentFile returns a persister for path. The file need not exist yet.
func NewDocumentFile(path string) *DocumentFile {
	return &DocumentFile{path: path}
}

// Path returns the document location.
func (f *DocumentFile) Path() string { return f.path }

// Load reads and decodes the document.
func (f *DocumentFile) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound.WithCause(err)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", f.path, err)
	}

	var doc domain.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrCorrupt.WithCause(err)
	}
	return &doc, nil
}

// Ping checks that the document exists and can be opened for reading.
func (f *DocumentFile) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("stat catalog %s: %w", f.path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("catalog %s is not a regular file", f.path)
	}

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open catalog %s: %w", f.path, err)
	}
	return file.Close()
}

// Save writes the whole document.
func (f *DocumentFile) Save(ctx context.Context, doc *domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // Write error takes precedence
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // Sync error takes precedence
		return fmt.Errorf("sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
