// Package ledger persists run progress to a JSON file so an interrupted
// run can resume without reprocessing completed work.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digitech/seogen/internal/domain"
)

// Store reads and writes a ledger file. Flushes are atomic: the ledger is
// written to a temp file in the same directory and renamed over the target,
// so a crash mid-flush never leaves a truncated ledger behind.
type Store struct {
	path string
}

// NewStore creates a store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger from disk. A missing file yields a fresh empty
// ledger; a present but unreadable file is an error, never silently reset.
func (s *Store) Load() (*domain.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewLedger(), nil
		}
		return nil, fmt.Errorf("failed to read ledger %s: %w", s.path, err)
	}

	l := domain.NewLedger()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", s.path, err)
	}
	if l.Processed == nil {
		l.Processed = []string{}
	}
	if l.Failed == nil {
		l.Failed = []domain.FailedItem{}
	}
	return l, nil
}

// Flush overwrites the ledger file with the current state.
func (s *Store) Flush(l *domain.Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp ledger: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
