package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidBackend = errors.New("invalid render backend")
	ErrInvalidAddr    = errors.New("invalid server address")
	ErrInvalidDate    = errors.New("invalid creation date")
)

// Render backends.
const (
	BackendFPDF   = "fpdf"
	BackendCanvas = "canvas"
)

const dateLayout = "2006-01-02"

// Config holds all configuration for legal notice generation.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Style   StyleConfig   `yaml:"style"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// ContentConfig selects the locale dictionaries.
type ContentConfig struct {
	Dir           string   `yaml:"dir"`           // Empty = embedded dictionaries
	Locales       []string `yaml:"locales"`       // Locales to load, default first unless DefaultLocale is set
	DefaultLocale string   `yaml:"defaultLocale"` // Fallback for unknown languages
}

// StyleConfig selects the style sheet.
type StyleConfig struct {
	Path string `yaml:"path"` // Empty = embedded legal.papyrus
}

// RenderConfig defines backend options.
type RenderConfig struct {
	Backend      string `yaml:"backend"`      // "fpdf" or "canvas"
	CreationDate string `yaml:"creationDate"` // YYYY-MM-DD, written to the document info
	FontDir      string `yaml:"fontDir"`      // Base directory for relative font paths
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"` // Also write the layout result as JSON
}

// ServerConfig defines the HTTP endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given:
// embedded content and style, fpdf backend, fixed creation date.
func Default() *Config {
	return &Config{
		Content: ContentConfig{Locales: []string{"en", "fr", "de", "lb"}, DefaultLocale: "en"},
		Render:  RenderConfig{Backend: BackendFPDF, CreationDate: "2025-01-01"},
		Output:  OutputConfig{Dir: "output"},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML file on top of Default(). Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enums and formats. Called by Load, but available for
// callers that override fields from flags.
func (c *Config) Validate() error {
	switch c.Render.Backend {
	case BackendFPDF, BackendCanvas:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidBackend, c.Render.Backend, BackendFPDF, BackendCanvas)
	}
	if _, err := c.CreationTime(); err != nil {
		return err
	}
	if len(c.Content.Locales) == 0 {
		return fmt.Errorf("content.locales: at least one locale is required")
	}
	if c.Content.DefaultLocale != "" && !contains(c.Content.Locales, c.Content.DefaultLocale) {
		return fmt.Errorf("content.defaultLocale: %q is not listed in content.locales", c.Content.DefaultLocale)
	}
	if c.Server.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidAddr, c.Server.Addr, err)
		}
	}
	return nil
}

// CreationTime parses render.creationDate. An empty value yields the zero time.
func (c *Config) CreationTime() (time.Time, error) {
	if c.Render.CreationDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, c.Render.CreationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, c.Render.CreationDate)
	}
	return t, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
