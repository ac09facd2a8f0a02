package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModelExtensions lists file extensions treated as model artifacts.
var ModelExtensions = []string{".gguf", ".bin"}

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// ResolveDir expands '~' and makes dir absolute.
func ResolveDir(dir string) (string, error) {
	base, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}

// PathExists reports whether path exists. Errors other than "not exist"
// (permissions, for instance) count as existing.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// IsModelArtifact reports whether name carries a model extension.
func IsModelArtifact(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ModelExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
