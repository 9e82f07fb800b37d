package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// FirstExisting joins rel onto each base in order and returns the first path
// that exists. If none exists it returns rel joined onto the first base, or
// rel itself made absolute when no bases are given.
func FirstExisting(rel string, bases ...string) string {
	for _, b := range bases {
		candidate := filepath.Join(b, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if len(bases) > 0 {
		return filepath.Join(bases[0], rel)
	}
	if abs, err := filepath.Abs(rel); err == nil {
		return abs
	}
	return rel
}
