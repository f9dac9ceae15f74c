package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteRaw writes content to name inside a fresh temporary directory and
// returns the file's path.
func WriteRaw(t *testing.T, name, content string) string {
	t.Helper()
	return WriteRawIn(t, t.TempDir(), name, content)
}

// WriteRawIn writes content to name inside dir and returns the file's path.
func WriteRawIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
