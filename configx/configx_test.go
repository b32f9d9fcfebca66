package configx

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPriorityOrder(t *testing.T) {
	cfg, err := New(
		WithSource(NewMapSource(map[string]any{"server.port": 9000}, "high", 20)),
		WithDefaults(map[string]any{"server.port": 8080, "inference.timeout": "30s"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if got := cfg.Get("server.port").AsInt(); got != 9000 {
		t.Errorf("server.port = %d, want 9000", got)
	}
	if got := cfg.Get("inference.timeout").AsDuration(); got != 30*time.Second {
		t.Errorf("inference.timeout = %v", got)
	}
}

func TestEnvSource(t *testing.T) {
	src := &EnvSource{
		prefix:   "MOCKUP_",
		priority: 10,
		environ: func() []string {
			return []string{"MOCKUP_INFERENCE_URL=http://x/1", "HOME=/root", "MOCKUP_STORE_DRIVER=s3"}
		},
	}

	values, err := src.Load()
	if err != nil {
		t.Fatal(err)
	}
	if values["inference.url"] != "http://x/1" || values["store.driver"] != "s3" {
		t.Errorf("values = %v", values)
	}
	if _, ok := values["home"]; ok {
		t.Error("unprefixed variable leaked")
	}
}

func TestDotEnvSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nMOCKUP_INFERENCE_KEY=\"secret\"\nexport MOCKUP_CACHE_DRIVER=mongo\nOTHER=1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	values, err := NewDotEnvSource(path, 5).Load()
	if err != nil {
		t.Fatal(err)
	}
	if values["inference.key"] != "secret" || values["cache.driver"] != "mongo" || len(values) != 2 {
		t.Errorf("values = %v", values)
	}
}

func TestDotEnvMissingFile(t *testing.T) {
	values, err := NewDotEnvSource(filepath.Join(t.TempDir(), "nope"), 5).Load()
	if err != nil || len(values) != 0 {
		t.Errorf("got %v, %v", values, err)
	}
}

func TestSetOverridesSources(t *testing.T) {
	cfg, err := New(WithDefaults(map[string]any{"store.driver": "local"}))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Set("Store.Driver", "s3")

	if got := cfg.Get("store.driver").AsString(); got != "s3" {
		t.Errorf("store.driver = %q", got)
	}
	if cfg.Has("store.bucket") {
		t.Error("unexpected key")
	}
	if got := cfg.Get("store.bucket").AsStringDefault("fallback"); got != "fallback" {
		t.Errorf("default = %q", got)
	}
}

func TestValueConversions(t *testing.T) {
	tests := []struct {
		raw any
		dur time.Duration
		b   bool
		i   int
	}{
		{"15", 15 * time.Second, false, 15},
		{"2m", 2 * time.Minute, false, 0},
		{"true", 0, true, 0},
		{3, 3 * time.Second, true, 3},
	}
	for _, tt := range tests {
		v := newValue("k", tt.raw, true)
		if v.AsDuration() != tt.dur || v.AsBool() != tt.b || v.AsInt() != tt.i {
			t.Errorf("%v: dur=%v bool=%v int=%v", tt.raw, v.AsDuration(), v.AsBool(), v.AsInt())
		}
	}
}

func TestRequiredEnv(t *testing.T) {
	_, err := New(WithRequiredEnvs("MOCKUP_TEST_SURELY_UNSET_VAR"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestYAMLSourceFlattens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mockup2html.yaml")
	doc := "server:\n  port: 9090\nStore:\n  driver: s3\n  bucket: mockups\ninference:\n  timeout: 45s\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(WithDefaults(map[string]any{"server.port": 8080}), WithYAML(path, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Get("server.port").AsInt(); got != 9090 {
		t.Errorf("server.port = %d", got)
	}
	if got := cfg.Get("store.bucket").AsString(); got != "mockups" {
		t.Errorf("store.bucket = %q", got)
	}
	if got := cfg.Get("inference.timeout").AsDuration(); got != 45*time.Second {
		t.Errorf("inference.timeout = %v", got)
	}
}

func TestYAMLSourceMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	if values, err := NewYAMLSource(filepath.Join(dir, "none.yaml"), 1).Load(); err != nil || len(values) != 0 {
		t.Errorf("missing file = %v, %v", values, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("server: [unclosed"), 0o644)
	if _, err := NewYAMLSource(bad, 1).Load(); err == nil {
		t.Error("invalid yaml accepted")
	}
}
