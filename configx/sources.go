package configx

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// envKey turns MOCKUP_INFERENCE_URL (prefix MOCKUP_) into inference.url
func envKey(raw, prefix string) (string, bool) {
	if prefix != "" {
		if !strings.HasPrefix(raw, prefix) {
			return "", false
		}
		raw = strings.TrimPrefix(raw, prefix)
	}
	if raw == "" {
		return "", false
	}
	return strings.ReplaceAll(strings.ToLower(raw), "_", "."), true
}

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix   string
	priority int
	environ  func() []string
}

// NewEnvSource creates a new environment variable source
func NewEnvSource(prefix string, priority int) Source {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		environ:  os.Environ,
	}
}

func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	for _, env := range s.environ() {
		k, v, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if key, ok := envKey(k, s.prefix); ok {
			result[key] = v
		}
	}
	return result, nil
}

func (s *EnvSource) Name() string  { return "env:" + s.prefix }
func (s *EnvSource) Priority() int { return s.priority }

// DotEnvSource loads configuration from a .env file
type DotEnvSource struct {
	path     string
	prefix   string
	priority int
}

// NewDotEnvSource creates a new .env file source. Keys use the same
// MOCKUP_ prefix convention as the environment.
func NewDotEnvSource(path string, priority int) Source {
	return &DotEnvSource{
		path:     path,
		prefix:   "MOCKUP_",
		priority: priority,
	}
}

func (s *DotEnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		v = strings.TrimSpace(v)
		if len(v) > 1 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
			v = v[1 : len(v)-1]
		}

		if key, ok := envKey(strings.TrimSpace(k), s.prefix); ok {
			result[key] = v
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return result, nil
}

func (s *DotEnvSource) Name() string  { return "dotenv:" + s.path }
func (s *DotEnvSource) Priority() int { return s.priority }

// MapSource serves a fixed map, used for defaults and tests
type MapSource struct {
	values   map[string]any
	name     string
	priority int
}

// NewMapSource creates a new map source
func NewMapSource(values map[string]any, name string, priority int) Source {
	return &MapSource{
		values:   values,
		name:     name,
		priority: priority,
	}
}

func (s *MapSource) Load() (map[string]any, error) {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *MapSource) Name() string  { return s.name }
func (s *MapSource) Priority() int { return s.priority }
