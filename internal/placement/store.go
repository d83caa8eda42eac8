package placement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// storedOffset is the on-disk shape of a remembered companion offset.
type storedOffset struct {
	DX      float64   `json:"dx"`
	DY      float64   `json:"dy"`
	SavedAt time.Time `json:"saved_at"`
}

// OffsetStore persists the remembered strategy's target-relative offset as
// a small JSON file.
type OffsetStore struct {
	mu   sync.Mutex
	path string
}

// NewOffsetStore returns a store writing to path. An empty path selects the
// default location under the user's config directory.
func NewOffsetStore(path string) *OffsetStore {
	return &OffsetStore{path: path}
}

// DefaultStatePath returns the stock location for the remembered offset.
func DefaultStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wingman", "offset.json"), nil
}

func (s *OffsetStore) resolvePath() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	return DefaultStatePath()
}

// Load reads the persisted offset. A missing file is not an error; the
// second return value reports whether an offset was found.
func (s *OffsetStore) Load() (dx, dy float64, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.resolvePath()
	if err != nil {
		return 0, 0, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("failed to read offset state: %w", err)
	}
	var stored storedOffset
	if err := json.Unmarshal(data, &stored); err != nil {
		return 0, 0, false, fmt.Errorf("failed to parse offset state: %w", err)
	}
	return stored.DX, stored.DY, true, nil
}

// Save writes the offset, creating the parent directory if needed.
func (s *OffsetStore) Save(dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.resolvePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(storedOffset{DX: dx, DY: dy, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode offset state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write offset state: %w", err)
	}
	return nil
}

// Clear removes the persisted offset if present.
func (s *OffsetStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.resolvePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear offset state: %w", err)
	}
	return nil
}
