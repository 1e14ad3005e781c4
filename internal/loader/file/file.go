// Package file reads and writes catalog documents on local disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// Source is the registry name of this loader.
const Source = "file"

func init() {
	loader.Register(Source, func(cfg loader.Config) (loader.Loader, error) {
		if cfg.Path == "" {
			return nil, errors.New("file source: catalog path is required")
		}
		return New(cfg.Path), nil
	})
}

// Loader reads a JSON catalog document from a path.
type Loader struct {
	path string
}

// New creates a Loader for path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and decodes the document.
func (l *Loader) Load(_ context.Context) (*model.Document, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("file source: %s: %w", l.path, err)
	}
	return doc, nil
}

// Decode parses a catalog document.
func Decode(r io.Reader) (*model.Document, error) {
	var doc model.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &doc, nil
}

// Save writes doc to path as indented JSON. The write goes to a temp file
// that is renamed into place, and concurrent writers are serialized by a
// "<path>.lock" file lock, so readers never see a partial document.
func Save(path string, doc *model.Document) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("file save: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file save: marshal: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file save: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file save: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file save: rename: %w", err)
	}
	return nil
}
