package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/goatx/testgen/internal/logger"
	"github.com/spf13/afero"
)

// Writer persists generated files, leaving files whose content is already
// up to date untouched.
type Writer struct {
	fs     afero.Fs
	logger logger.Logger
	dryRun bool
}

type Option func(*Writer)

// WithDryRun makes the writer report changes without touching the file system.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) {
		w.dryRun = dryRun
	}
}

func NewWriter(fsys afero.Fs, log logger.Logger, opts ...Option) *Writer {
	w := &Writer{fs: fsys, logger: log}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteIfChanged writes content to path unless the file already holds exactly
// these bytes. It reports whether the file was (or, in dry-run mode, would
// be) written.
func (w *Writer) WriteIfChanged(path string, content []byte) (bool, error) {
	existing, err := afero.ReadFile(w.fs, path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			w.logger.Debug("file is up to date", "path", path)
			return false, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if w.dryRun {
		w.logger.Info("file would change", "path", path)
		return true, nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := afero.WriteFile(w.fs, path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Info("file written", "path", path, "bytes", len(content))
	return true, nil
}
