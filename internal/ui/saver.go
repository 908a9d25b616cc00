package ui

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirSaver writes downloads into a directory
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/name, replacing any previous file of that name
func (s DirSaver) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write download: %w", err)
	}

	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save download: %w", err)
	}
	return nil
}

// Path returns where a download called name ends up
func (s DirSaver) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
