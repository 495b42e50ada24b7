package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abdidvp/storediag/internal/domain"
)

// FileHistory implements domain.RunHistory with one JSON array per store
// under <dataDir>/history.
type FileHistory struct {
	dir string
	mu  sync.Mutex
}

func New(dataDir string) *FileHistory {
	return &FileHistory{dir: filepath.Join(dataDir, "history")}
}

func (h *FileHistory) path(storeCode string) string {
	return filepath.Join(h.dir, storeCode+".json")
}

func (h *FileHistory) Append(storeCode string, entry domain.RunEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load(storeCode)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.WriteFile(h.path(storeCode), data, 0644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Load returns the entries for storeCode oldest first, or nil when none exist.
func (h *FileHistory) Load(storeCode string) ([]domain.RunEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(storeCode)
}

func (h *FileHistory) load(storeCode string) ([]domain.RunEntry, error) {
	if storeCode == "" || filepath.Base(storeCode) != storeCode {
		return nil, fmt.Errorf("invalid store code %q", storeCode)
	}
	data, err := os.ReadFile(h.path(storeCode))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding history for %s: %w", storeCode, err)
	}
	return entries, nil
}
