package localfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage keeps request-scoped uploads under tempPath and generated reports
// under reportsPath. Both directories are created on construction.
type Storage struct {
	tempPath    string
	reportsPath string
	logger      *slog.Logger
}

func New(tempPath, reportsPath string, logger *slog.Logger) (*Storage, error) {
	if tempPath == "" {
		tempPath = "./data/tmp"
	}
	if reportsPath == "" {
		reportsPath = "./reports"
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, dir := range []string{tempPath, reportsPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &Storage{tempPath: tempPath, reportsPath: reportsPath, logger: logger}, nil
}

// SaveTemp writes the upload to a uniquely named file and returns a cleanup
// closure. The uuid prefix keeps concurrent uploads of identically named
// files apart.
func (s *Storage) SaveTemp(_ context.Context, filename string, body io.Reader) (string, func(), error) {
	name := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(s.tempPath, name)

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove temp file", "path", path, "error", err)
		}
	}
	return path, cleanup, nil
}

// SaveReport persists a rendered report as report_<short-id>.<ext> and
// returns the generated filename.
func (s *Storage) SaveReport(_ context.Context, extension string, data []byte) (string, error) {
	name := fmt.Sprintf("report_%s.%s", uuid.NewString()[:8], extension)
	path := filepath.Join(s.reportsPath, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return name, nil
}

func (s *Storage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}
