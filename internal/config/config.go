// Package config loads the optional site configuration: <root>/site.yaml,
// <root>/.env and PAGESMITH_* environment overrides.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// File names looked up in the site root.
const (
	DefaultFile = "site.yaml"
	EnvFile     = ".env"
)

// Environment overrides.
const (
	EnvLogLevel  = "PAGESMITH_LOG_LEVEL"
	EnvLogFormat = "PAGESMITH_LOG_FORMAT"
)

// Config is the site configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Logging  LoggingConfig  `yaml:"logging"`
	Source   SourceConfig   `yaml:"source"`
	History  HistoryConfig  `yaml:"history"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// MarkdownConfig controls the Markdown pass.
type MarkdownConfig struct {
	Enabled     bool `yaml:"enabled"`
	GFM         bool `yaml:"gfm"`
	Unsafe      bool `yaml:"unsafe"`
	HardWraps   bool `yaml:"hard_wraps"`
	InlineParts bool `yaml:"inline_parts"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

type SourceConfig struct {
	IgnoreFile string `yaml:"ignore_file"`
}

// HistoryConfig enables the build history database.
type HistoryConfig struct {
	Path string `yaml:"path"` // empty disables history
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables the export
}

// Default returns the configuration used when no site.yaml exists.
func Default() *Config {
	return &Config{
		Output:   OutputConfig{Directory: "output"},
		Markdown: MarkdownConfig{Enabled: true, GFM: true, Unsafe: true, InlineParts: true},
		Logging:  LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Source:   SourceConfig{IgnoreFile: ".siteignore"},
	}
}

// Load reads the configuration for the site at root. path overrides the
// default <root>/site.yaml; an explicit path must exist, the default may not.
// <root>/.env is loaded first without overriding the process environment, so
// ${VAR} references in the YAML can use it.
func Load(root, path string) (*Config, error) {
	if err := loadEnv(filepath.Join(root, EnvFile)); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, DefaultFile)
	}

	cfg := Default()
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-provided.
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration file").
				Fatal().
				WithContext("path", path).
				Build()
		}
		slog.Debug("Configuration loaded", logfields.Path(path))
	case stderrors.Is(err, os.ErrNotExist) && !explicit:
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg, nil
}

func loadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	// godotenv.Load never overrides variables already set in the process.
	if err := godotenv.Load(path); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "cannot load .env file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	slog.Debug("Loaded environment file", logfields.Path(path))
	return nil
}

// decode expands ${VAR} references and decodes YAML over the defaults
// already present in cfg. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
}

// normalize canonicalises enum values and refills emptied fields. Unknown
// enum values fall back to the default with a warning.
func (c *Config) normalize() {
	level, err := logLevelNormalizer.Lookup(string(c.Logging.Level))
	if err != nil {
		slog.Warn("Unknown log level, using default", logfields.Error(err))
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.Lookup(string(c.Logging.Format))
	if err != nil {
		slog.Warn("Unknown log format, using default", logfields.Error(err))
	}
	c.Logging.Format = format

	def := Default()
	if c.Output.Directory == "" {
		c.Output.Directory = def.Output.Directory
	}
	if c.Source.IgnoreFile == "" {
		c.Source.IgnoreFile = def.Source.IgnoreFile
	}
}

// Resolve joins a relative p onto root. Empty and absolute paths are
// returned unchanged.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
