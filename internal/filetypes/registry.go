// Package filetypes resolves display content types for file names from
// an embedded YAML table. The mapping is presentation metadata only; the
// core never opens file contents.
package filetypes

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/filetypes.yaml
var configFiles embed.FS

// Registry maps file extensions to content types. Immutable after New.
type Registry struct {
	byExt    map[string]string
	fallback string
}

type registryFile struct {
	Fallback string `yaml:"fallback"`
	Types    []struct {
		ContentType string   `yaml:"content_type"`
		Extensions  []string `yaml:"extensions"`
	} `yaml:"types"`
}

// NewRegistry loads the embedded content-type table.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/filetypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read filetypes config: %w", err)
	}

	var cfg registryFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal filetypes config: %w", err)
	}
	if cfg.Fallback == "" {
		return nil, fmt.Errorf("filetypes config: fallback content type is required")
	}

	byExt := make(map[string]string)
	for _, t := range cfg.Types {
		for _, ext := range t.Extensions {
			byExt[strings.ToLower(ext)] = t.ContentType
		}
	}

	return &Registry{byExt: byExt, fallback: cfg.Fallback}, nil
}

// ContentType returns the content type for a file name, falling back to
// the configured default for unknown or missing extensions.
func (r *Registry) ContentType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ct, ok := r.byExt[ext]; ok {
		return ct
	}
	return r.fallback
}
