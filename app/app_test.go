package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/mockup2html/configx"
	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/inference"
	"github.com/Abraxas-365/mockup2html/validatex"
)

func load(t *testing.T, overrides map[string]any) (Settings, error) {
	t.Helper()
	return Load(filepath.Join(t.TempDir(), "missing.yaml"),
		configx.WithSource(configx.NewMapSource(overrides, "test", 100)))
}

func TestLoadDefaults(t *testing.T) {
	s, err := load(t, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Server.Port != 8080 || s.Inference.URL != inference.DefaultURL || s.Inference.Timeout != 30*time.Second {
		t.Errorf("settings = %+v", s)
	}
	if s.Store.Driver != "local" || s.Cache.Driver != "memory" || s.Events.Driver != "memory" {
		t.Errorf("drivers = %s %s %s", s.Store.Driver, s.Cache.Driver, s.Events.Driver)
	}
}

func TestLoadRejectsIncompleteDrivers(t *testing.T) {
	tests := []struct {
		name  string
		over  map[string]any
		field string
	}{
		{"s3 without bucket", map[string]any{"store.driver": "s3"}, "Store.Bucket"},
		{"mongo without uri", map[string]any{"cache.driver": "mongo"}, "Cache.URI"},
		{"sqs without queue", map[string]any{"events.driver": "sqs"}, "Events.Queue"},
		{"unknown store", map[string]any{"store.driver": "gcs"}, "Store.Driver"},
		{"bad inference url", map[string]any{"inference.url": "detect"}, "Inference.URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.over)
			if !errx.IsCode(err, configx.ErrInvalidSetting) {
				t.Fatalf("err = %v", err)
			}
			if _, ok := validatex.Failures(errCause(err))[tt.field]; !ok {
				t.Errorf("failures = %v", validatex.Failures(errCause(err)))
			}
		})
	}
}

func errCause(err error) error {
	if e, ok := err.(*errx.Error); ok {
		return e.Unwrap()
	}
	return nil
}

func TestBuildLocal(t *testing.T) {
	s, err := load(t, map[string]any{"store.root": t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	c, err := Build(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(ctx)

	if c.Service == nil || c.Archiver == nil || c.Bus == nil || c.Cache == nil {
		t.Fatalf("components = %+v", c)
	}
	if err := c.Store.WriteFile(ctx, "probe.txt", []byte("ok")); err != nil {
		t.Error(err)
	}
}
