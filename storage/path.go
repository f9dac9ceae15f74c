package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/coredata/errors"
)

// ValidatePath cleans path and checks that a file or directory exists there.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(errors.ErrInvalidPath, "empty path")
	}
	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err != nil {
		return "", errors.Wrapf(errors.ErrInvalidPath, "the file %s could not be found", clean)
	}
	return clean, nil
}

// ExtensionOf returns the extension of a path, without the leading dot.
//
// A token containing a path separator or a dot is treated as a path and must
// exist; anything else is taken to be a bare extension already:
//
//	ExtensionOf("raws/items.yml") // "yml", if the file exists
//	ExtensionOf("yml")            // "yml"
func ExtensionOf(pathOrExt string) (string, error) {
	if !strings.ContainsAny(pathOrExt, `/\.`) {
		return pathOrExt, nil
	}
	clean, err := ValidatePath(pathOrExt)
	if err != nil {
		return "", err
	}
	return suffix(clean), nil
}

// IsExcludedExtension reports whether the extension of pathOrExt is one of
// excluded.
func IsExcludedExtension(pathOrExt string, excluded []string) bool {
	if len(excluded) == 0 {
		return false
	}
	ext, err := ExtensionOf(pathOrExt)
	if err != nil {
		return false
	}
	return containsExt(excluded, ext)
}

func suffix(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func containsExt(extensions []string, ext string) bool {
	for _, candidate := range extensions {
		if strings.TrimPrefix(candidate, ".") == ext {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
