// Package workspace reads agent/workflow/task/tool descriptor files and the
// workspace configuration from the filesystem. The filesystem is the sole
// source of truth: every call re-reads it, nothing is cached.
package workspace

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

// Categories are the descriptor directories the dashboard exposes.
var Categories = []string{"agents", "workflows", "tasks", "tools"}

// Reader lists descriptor files under a workspace root.
type Reader struct {
	root   string
	logger *slog.Logger
}

// NewReader creates a reader rooted at the given workspace directory.
func NewReader(root string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{root: root, logger: logger}
}

// List returns the descriptors found in the named category directory.
// A missing directory yields an empty slice, not an error. Dotfiles and
// *.schema.json files are skipped; a malformed file is logged and skipped
// without aborting the scan.
func (r *Reader) List(category string) ([]models.ConfigDescriptor, error) {
	dir := filepath.Join(r.root, category)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ConfigDescriptor{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	descriptors := []models.ConfigDescriptor{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if skipEntry(name) {
			continue
		}

		path := filepath.Join(dir, name)
		fields, err := parseDescriptorFile(path)
		if err != nil {
			r.logger.Warn("skipping malformed descriptor",
				"category", category,
				"file", name,
				"error", err,
			)
			continue
		}
		if fields == nil {
			// Unrecognized extension.
			continue
		}

		descriptors = append(descriptors, models.ConfigDescriptor{
			Filename: name,
			Path:     path,
			Fields:   fields,
		})
	}

	return descriptors, nil
}

// Counts returns the number of descriptors in each category. A category
// whose scan fails degrades to zero rather than failing the whole call.
func (r *Reader) Counts() map[string]int {
	counts := make(map[string]int, len(Categories))
	for _, category := range Categories {
		descriptors, err := r.List(category)
		if err != nil {
			r.logger.Warn("counting descriptors failed", "category", category, "error", err)
			counts[category] = 0
			continue
		}
		counts[category] = len(descriptors)
	}
	return counts
}

// WorkspaceConfig parses config/workspace.json under the workspace root and
// returns its contents as an arbitrary JSON object.
func (r *Reader) WorkspaceConfig() (map[string]any, error) {
	path := filepath.Join(r.root, "config", "workspace.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	return cfg, nil
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".schema.json")
}

// parseDescriptorFile parses one descriptor by extension. A nil map with a
// nil error means the extension is not a descriptor format.
func parseDescriptorFile(path string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if ext == ".json" {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		return fields, nil
	}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
