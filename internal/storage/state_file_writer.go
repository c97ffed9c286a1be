package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
)

// StateFileWriter rewrites the per-state JSON file with overviews attached
type StateFileWriter struct {
	path   string
	logger calculation.Logger
}

// NewStateFileWriter creates a writer for path
func NewStateFileWriter(path string, logger calculation.Logger) *StateFileWriter {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &StateFileWriter{path: path, logger: logger}
}

// WriteOverviews writes to a temporary file in the same directory and renames
// it over the target, so readers never see a partial file.
func (w *StateFileWriter) WriteOverviews(ctx context.Context, state *domain.StateData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := config.MarshalStateData(state)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", w.path, err)
	}

	w.logger.Infof("wrote %s (%d bytes)", w.path, len(data))
	return nil
}

// Close is a no-op
func (w *StateFileWriter) Close() error {
	return nil
}
