package configx

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	configErrors = errx.NewRegistry("CONFIG")

	ErrSourceFailed   = configErrors.Register("SOURCE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to load configuration source")
	ErrMissingEnv     = configErrors.Register("MISSING_ENV", errx.TypeValidation, http.StatusInternalServerError, "Required environment variables are not set")
	ErrInvalidSetting = configErrors.Register("INVALID_SETTING", errx.TypeValidation, http.StatusInternalServerError, "Invalid configuration value")
)

// InvalidSetting wraps a failed check of the loaded settings
func InvalidSetting(cause error) *errx.Error {
	return configErrors.NewWithCause(ErrInvalidSetting, cause)
}

// Config represents the main configuration interface
type Config interface {
	// Get retrieves a configuration value by dotted key, e.g. "inference.url"
	Get(key string) Value

	// Set overrides a configuration value
	Set(key string, val any)

	// Has checks if a configuration key exists
	Has(key string) bool

	// AllSettings returns a copy of every loaded key
	AllSettings() map[string]any

	// AddSource adds a configuration source; call LoadAll afterwards
	AddSource(source Source) Config

	// LoadAll reloads all configuration sources
	LoadAll() error
}

// Source represents a configuration source
type Source interface {
	// Load returns flat dotted keys mapped to their values
	Load() (map[string]any, error)

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher values override lower)
	Priority() int
}

// Option configures a Config built with New
type Option func(*configuration)

type configuration struct {
	sync.RWMutex
	values       map[string]any
	overrides    map[string]any
	sources      []Source
	requiredEnvs []string
}

// New creates a Config from the given options and loads every source
func New(opts ...Option) (Config, error) {
	cfg := &configuration{
		values:    make(map[string]any),
		overrides: make(map[string]any),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := requireEnv(cfg.requiredEnvs); err != nil {
		return nil, err
	}

	if err := cfg.LoadAll(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithSource adds an arbitrary source
func WithSource(source Source) Option {
	return func(c *configuration) {
		c.sources = append(c.sources, source)
	}
}

// WithDefaults registers the lowest priority source
func WithDefaults(defaults map[string]any) Option {
	return WithSource(NewMapSource(defaults, "defaults", 0))
}

// WithEnv reads environment variables starting with prefix
func WithEnv(prefix string, priority int) Option {
	return WithSource(NewEnvSource(prefix, priority))
}

// WithDotEnv reads a .env file; a missing file is not an error
func WithDotEnv(path string, priority int) Option {
	return WithSource(NewDotEnvSource(path, priority))
}

// WithRequiredEnvs fails New when any of the variables is unset
func WithRequiredEnvs(envVars ...string) Option {
	return func(c *configuration) {
		c.requiredEnvs = append(c.requiredEnvs, envVars...)
	}
}

func requireEnv(envVars []string) error {
	var missing []string
	for _, env := range envVars {
		if _, ok := os.LookupEnv(env); !ok {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return configErrors.New(ErrMissingEnv).WithDetail("missing", missing)
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (c *configuration) Get(key string) Value {
	c.RLock()
	defer c.RUnlock()

	key = normalizeKey(key)
	if v, ok := c.overrides[key]; ok {
		return newValue(key, v, true)
	}
	v, ok := c.values[key]
	return newValue(key, v, ok)
}

func (c *configuration) Set(key string, val any) {
	c.Lock()
	defer c.Unlock()
	c.overrides[normalizeKey(key)] = val
}

func (c *configuration) Has(key string) bool {
	return c.Get(key).IsSet()
}

func (c *configuration) AllSettings() map[string]any {
	c.RLock()
	defer c.RUnlock()

	out := make(map[string]any, len(c.values)+len(c.overrides))
	for k, v := range c.values {
		out[k] = v
	}
	for k, v := range c.overrides {
		out[k] = v
	}
	return out
}

func (c *configuration) AddSource(source Source) Config {
	c.Lock()
	defer c.Unlock()
	c.sources = append(c.sources, source)
	return c
}

// LoadAll merges every source, lowest priority first
func (c *configuration) LoadAll() error {
	c.Lock()
	defer c.Unlock()

	sources := make([]Source, len(c.sources))
	copy(sources, c.sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	merged := make(map[string]any)
	for _, source := range sources {
		data, err := source.Load()
		if err != nil {
			return configErrors.NewWithCause(ErrSourceFailed, err).
				WithDetail("source", source.Name())
		}
		for k, v := range data {
			merged[normalizeKey(k)] = v
		}
	}

	c.values = merged
	return nil
}

// Value wraps a configuration value and provides type conversion methods
type Value interface {
	IsSet() bool
	AsString() string
	AsStringDefault(def string) string
	AsInt() int
	AsIntDefault(def int) int
	AsBool() bool
	AsBoolDefault(def bool) bool
	AsDuration() time.Duration
	AsDurationDefault(def time.Duration) time.Duration
}

type value struct {
	key   string
	raw   any
	isSet bool
}

func newValue(key string, raw any, isSet bool) Value {
	return &value{key: key, raw: raw, isSet: isSet}
}

func (v *value) IsSet() bool { return v.isSet }

func (v *value) AsString() string { return v.AsStringDefault("") }

func (v *value) AsStringDefault(def string) string {
	if !v.isSet || v.raw == nil {
		return def
	}
	if s, ok := v.raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v.raw)
}

func (v *value) AsInt() int { return v.AsIntDefault(0) }

func (v *value) AsIntDefault(def int) int {
	if !v.isSet {
		return def
	}
	switch t := v.raw.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return def
}

func (v *value) AsBool() bool { return v.AsBoolDefault(false) }

func (v *value) AsBoolDefault(def bool) bool {
	if !v.isSet {
		return def
	}
	switch t := v.raw.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

func (v *value) AsDuration() time.Duration { return v.AsDurationDefault(0) }

// AsDurationDefault accepts Go duration strings or plain seconds
func (v *value) AsDurationDefault(def time.Duration) time.Duration {
	if !v.isSet {
		return def
	}
	switch t := v.raw.(type) {
	case time.Duration:
		return t
	case int:
		return time.Duration(t) * time.Second
	case float64:
		return time.Duration(t * float64(time.Second))
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(t)); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
