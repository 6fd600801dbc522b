// Package config loads docfill settings from docfill.yaml, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "docfill.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCFILL_"

// Config holds all docfill settings.
type Config struct {
	// Word template with the custody term markers.
	Template string `yaml:"template"`
	// Directory generated documents are written to.
	OutputDir string `yaml:"output_dir"`
	// pongo2 pattern for the document file name.
	FilenamePattern string `yaml:"filename_pattern"`
	// Saved form state.
	StateFile string `yaml:"state_file"`
	// Optional field definition replacing the built-in form.
	Definition string `yaml:"definition"`

	Export  ExportConfig  `yaml:"export"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig configures PDF conversion.
type ExportConfig struct {
	Converter string `yaml:"converter"`
	Timeout   string `yaml:"timeout"`
	Enabled   bool   `yaml:"enabled"`
}

// LedgerConfig configures the generation ledger. An empty path disables it.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// PreviewConfig configures the HTML preview.
type PreviewConfig struct {
	Variant string `yaml:"variant"` // light, dark
	// TemplatesDir holds page templates that replace the built-in ones.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Template:        "Termo responsa.docx",
		OutputDir:       ".",
		FilenamePattern: "Termo - {{ nome|filename }}.docx",
		StateFile:       "dados_salvos.json",
		Export: ExportConfig{
			Converter: "soffice",
			Timeout:   "2m",
		},
		Preview: PreviewConfig{Variant: "light"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error. Variables from a .env file in the working
// directory are loaded first without replacing ones already set.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"TEMPLATE", &c.Template},
		{"OUTPUT_DIR", &c.OutputDir},
		{"FILENAME_PATTERN", &c.FilenamePattern},
		{"STATE_FILE", &c.StateFile},
		{"DEFINITION", &c.Definition},
		{"CONVERTER", &c.Export.Converter},
		{"EXPORT_TIMEOUT", &c.Export.Timeout},
		{"LEDGER", &c.Ledger.Path},
		{"THEME", &c.Preview.Variant},
		{"PREVIEW_TEMPLATES", &c.Preview.TemplatesDir},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FORMAT", &c.Logging.Format},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(EnvPrefix + o.key); ok && strings.TrimSpace(value) != "" {
			*o.dst = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv(EnvPrefix + "PDF"); ok {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "sim":
			c.Export.Enabled = true
		case "0", "false", "no", "nao", "não":
			c.Export.Enabled = false
		}
	}
}

// ExportTimeout returns the conversion timeout, two minutes when unset or
// invalid.
func (c *Config) ExportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Export.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FilenamePattern) == "" {
		return errors.New("config: filename_pattern is empty")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: invalid logging format %q (valid: console, json)", c.Logging.Format)
	}
	if c.Export.Timeout != "" {
		if _, err := time.ParseDuration(c.Export.Timeout); err != nil {
			return fmt.Errorf("config: invalid export timeout %q: %w", c.Export.Timeout, err)
		}
	}
	return nil
}
