package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Render.Backend != BackendFPDF {
		t.Errorf("Render.Backend = %q, want %q", cfg.Render.Backend, BackendFPDF)
	}
	if cfg.Content.Dir != "" || cfg.Style.Path != "" {
		t.Errorf("default config should use embedded content and style")
	}
	got, err := cfg.CreationTime()
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("CreationTime() = %v, want %v", got, want)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
content:
  dir: ./dicts
  locales: [fr, en]
  defaultLocale: fr
render:
  backend: canvas
server:
  addr: "127.0.0.1:9000"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Default()
	want.Content = ContentConfig{Dir: "./dicts", Locales: []string{"fr", "en"}, DefaultLocale: "fr"}
	want.Render.Backend = BackendCanvas
	want.Server.Addr = "127.0.0.1:9000"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unknown field", "render:\n  engine: pdf\n", ErrConfigParse},
		{"bad backend", "render:\n  backend: latex\n", ErrInvalidBackend},
		{"bad date", "render:\n  creationDate: 01/01/2025\n", ErrInvalidDate},
		{"bad addr", "server:\n  addr: localhost\n", ErrInvalidAddr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaultLocale(t *testing.T) {
	cfg := Default()
	cfg.Content.DefaultLocale = "it"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default locale outside the locale list")
	}
	cfg.Content.Locales = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty locale list")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legalnotice.yaml")
	if err := os.WriteFile(path, []byte("output:\n  dir: dist\n  debug: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "dist" || !cfg.Output.Debug {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrConfigNotFound", err)
	}
}
