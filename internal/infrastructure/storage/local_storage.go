package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes exports below a base directory
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage directory is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Save writes data to baseDir/key and returns the file path
func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	target := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if target != s.baseDir && !strings.HasPrefix(target, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the storage directory", key)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move export into place: %w", err)
	}
	return target, nil
}
