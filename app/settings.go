// Package app loads settings and assembles the conversion service from the
// configured store, cache and event drivers.
package app

import (
	"time"

	"github.com/Abraxas-365/mockup2html/configx"
	"github.com/Abraxas-365/mockup2html/inference"
	"github.com/Abraxas-365/mockup2html/validatex"
)

type ServerSettings struct {
	Port      int `validatex:"required,min=1,max=65535"`
	BodyLimit int `validatex:"min=0"`
}

type InferenceSettings struct {
	URL     string `validatex:"required,url"`
	Key     string
	Timeout time.Duration `validatex:"duration"`
}

type StoreSettings struct {
	Driver      string `validatex:"required,oneof=local s3"`
	Root        string `validatex:"required_if=Driver local"`
	Bucket      string `validatex:"required_if=Driver s3"`
	Prefix      string
	Region      string
	Endpoint    string `validatex:"url"`
	BaseURL     string `validatex:"url"`
	MaxInFlight int64  `validatex:"min=0"`
}

type CacheSettings struct {
	Driver     string `validatex:"required,oneof=memory mongo"`
	URI        string `validatex:"required_if=Driver mongo"`
	Database   string `validatex:"required_if=Driver mongo"`
	Collection string
}

type EventSettings struct {
	Driver string `validatex:"required,oneof=memory sqs"`
	Queue  string `validatex:"required_if=Driver sqs"`
}

type Settings struct {
	Server      ServerSettings
	Inference   InferenceSettings
	Store       StoreSettings
	Cache       CacheSettings
	Events      EventSettings
	SkipUnknown bool
}

// Defaults are the lowest priority configuration layer
var Defaults = map[string]any{
	"server.port":        8080,
	"server.bodylimit":   32 << 20,
	"inference.url":      inference.DefaultURL,
	"inference.timeout":  "30s",
	"store.driver":       "local",
	"store.root":         "./archive",
	"store.maxinflight":  4,
	"cache.driver":       "memory",
	"cache.database":     "mockup2html",
	"cache.collection":   "sessions",
	"events.driver":      "memory",
	"markup.skipunknown": false,
}

// LoadOptions returns the usual layering: defaults, mockup2html.yaml, .env,
// then MOCKUP_ environment variables
func LoadOptions(yamlPath string) []configx.Option {
	return []configx.Option{
		configx.WithDefaults(Defaults),
		configx.WithYAML(yamlPath, 5),
		configx.WithDotEnv(".env", 10),
		configx.WithEnv("MOCKUP_", 20),
	}
}

// FromConfig reads and validates Settings
func FromConfig(cfg configx.Config) (Settings, error) {
	s := Settings{
		Server: ServerSettings{
			Port:      cfg.Get("server.port").AsInt(),
			BodyLimit: cfg.Get("server.bodylimit").AsInt(),
		},
		Inference: InferenceSettings{
			URL:     cfg.Get("inference.url").AsString(),
			Key:     cfg.Get("inference.key").AsString(),
			Timeout: cfg.Get("inference.timeout").AsDuration(),
		},
		Store: StoreSettings{
			Driver:      cfg.Get("store.driver").AsString(),
			Root:        cfg.Get("store.root").AsString(),
			Bucket:      cfg.Get("store.bucket").AsString(),
			Prefix:      cfg.Get("store.prefix").AsString(),
			Region:      cfg.Get("store.region").AsString(),
			Endpoint:    cfg.Get("store.endpoint").AsString(),
			BaseURL:     cfg.Get("store.baseurl").AsString(),
			MaxInFlight: int64(cfg.Get("store.maxinflight").AsInt()),
		},
		Cache: CacheSettings{
			Driver:     cfg.Get("cache.driver").AsString(),
			URI:        cfg.Get("cache.uri").AsString(),
			Database:   cfg.Get("cache.database").AsString(),
			Collection: cfg.Get("cache.collection").AsStringDefault("sessions"),
		},
		Events: EventSettings{
			Driver: cfg.Get("events.driver").AsString(),
			Queue:  cfg.Get("events.queue").AsString(),
		},
		SkipUnknown: cfg.Get("markup.skipunknown").AsBool(),
	}

	if err := validatex.Validate(&s); err != nil {
		return Settings{}, configx.InvalidSetting(err)
	}
	return s, nil
}

// Load builds the layered config and reads Settings from it
func Load(yamlPath string, extra ...configx.Option) (Settings, error) {
	cfg, err := configx.New(append(LoadOptions(yamlPath), extra...)...)
	if err != nil {
		return Settings{}, err
	}
	return FromConfig(cfg)
}
