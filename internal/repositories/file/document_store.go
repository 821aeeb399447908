package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
)

// DocumentStore keeps each document as a JSON file below a base directory. Saves write a
// temporary file and rename it over the old one, so a failed write leaves the previous version
// in place.
type DocumentStore struct {
	baseDir string
}

// NewDocumentStore creates the base directory if needed.
func NewDocumentStore(baseDir string) (*DocumentStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", baseDir, err)
	}
	return &DocumentStore{baseDir: baseDir}, nil
}

var _ portsrepo.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) pathFor(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(s.baseDir, clean+".json"), nil
}

// Load reads the document file.
func (s *DocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	p, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document %s: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Save replaces the document file.
func (s *DocumentStore) Save(ctx context.Context, name string, data []byte) error {
	p, err := s.pathFor(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replace %s: %w", p, err)
	}
	return nil
}
