package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"modelbridge/internal/common/fsutil"
	"modelbridge/pkg/types"
)

// Scanner discovers model artifacts in a directory.
type Scanner struct{}

// NewScanner returns a Scanner for *.gguf and *.bin artifacts.
func NewScanner() Scanner { return Scanner{} }

// Scan lists artifacts directly under dir. ID is the full filename; Path is
// the absolute file path. Results are sorted by ID.
func (Scanner) Scan(dir string) ([]types.Model, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() || !fsutil.IsModelArtifact(e.Name()) {
			continue
		}
		name := e.Name()
		m := types.Model{
			ID:     name,
			Name:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path:   filepath.Join(abs, name),
			Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		}
		if fi, err := e.Info(); err == nil {
			m.SizeBytes = fi.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// LoadDir scans dir with the default Scanner.
func LoadDir(dir string) ([]types.Model, error) { return NewScanner().Scan(dir) }

// Lookup finds a model by ID.
func Lookup(models []types.Model, id string) (types.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}
