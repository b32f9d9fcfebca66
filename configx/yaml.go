package configx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLSource loads a nested YAML document and flattens it into dotted keys,
// so server: {port: 8080} becomes server.port
type YAMLSource struct {
	path     string
	priority int
}

// NewYAMLSource creates a YAML file source. A missing file is not an error.
func NewYAMLSource(path string, priority int) Source {
	return &YAMLSource{path: path, priority: priority}
}

// WithYAML reads a YAML config file
func WithYAML(path string, priority int) Option {
	return WithSource(NewYAMLSource(path, priority))
}

func (s *YAMLSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml in %s: %w", s.path, err)
	}
	flatten("", doc, result)
	return result, nil
}

func (s *YAMLSource) Name() string  { return "yaml:" + s.path }
func (s *YAMLSource) Priority() int { return s.priority }

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}
