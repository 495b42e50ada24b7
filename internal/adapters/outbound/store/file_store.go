package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abdidvp/storediag/internal/domain"
)

// FileStore keeps one JSON file per store under <dir>/results.
type FileStore struct {
	dir string
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dir: filepath.Join(dataDir, "results")}
}

func (s *FileStore) path(code string) string {
	return filepath.Join(s.dir, code+".json")
}

// Save replaces the stored result. The write is atomic: readers see the old
// document or the new one, never a partial file.
func (s *FileStore) Save(_ context.Context, code string, res *domain.DiagnosticResult) error {
	if err := checkCode(code); err != nil {
		return err
	}
	data, err := Marshal(res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+code+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing result: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(code)); err != nil {
		return fmt.Errorf("replacing result: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, code string) (*domain.DiagnosticResult, error) {
	if err := checkCode(code); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(code))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}
	return Unmarshal(data)
}

func (s *FileStore) Close() error { return nil }
