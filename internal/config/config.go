package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"nagctl/internal/templatefmt"
)

const (
	DefaultMainConfig    = "/etc/nagios3/nagios.cfg"
	DefaultAuthor        = "nagctl"
	DefaultAllFormat     = `{{.Host}}: {{join .Services ", "}}`
	DefaultHostFormat    = `{{.Host}}`
	DefaultServiceFormat = `{{.Service}}`
)

// Config is the nagctl settings snapshot.
type Config struct {
	Nagios NagiosConfig `toml:"nagios"`
	Log    LogConfig    `toml:"log"`
	Search SearchConfig `toml:"search"`
}

// NagiosConfig locates the monitoring server files.
// Params: main config path, optional command file override, author for comments.
// Returns: paths and identity used by the run pipeline.
type NagiosConfig struct {
	MainConfig  string `toml:"main_config" validate:"required"`
	CommandFile string `toml:"command_file"`
	Author      string `toml:"author" validate:"required,excludesall=;"`
}

// LogConfig contains console/file logging sinks.
// Params: sink settings for each output target.
// Returns: logger setup options.
type LogConfig struct {
	Console LogSinkConfig `toml:"console"`
	File    LogSinkConfig `toml:"file"`
}

// LogSinkConfig defines one logging sink.
// Params: sink enable flag, level, format, and path.
// Returns: sink-specific behavior.
type LogSinkConfig struct {
	Enabled *bool  `toml:"enabled"`
	Level   string `toml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format  string `toml:"format" validate:"omitempty,oneof=line json"`
	Path    string `toml:"path"`
}

// IsEnabled reports the explicit enabled flag; unset means disabled.
func (s LogSinkConfig) IsEnabled() bool {
	return s.Enabled != nil && *s.Enabled
}

// SearchConfig holds text/template bodies for search output rows.
type SearchConfig struct {
	AllFormat     string `toml:"all_format" validate:"required"`
	HostFormat    string `toml:"host_format" validate:"required"`
	ServiceFormat string `toml:"service_format" validate:"required"`
}

// ConfigSource describes file or directory settings source.
// Params: at most one of file path or directory path.
// Returns: normalized source descriptor; empty means defaults only.
type ConfigSource struct {
	File string
	Dir  string
}

// FromCLI builds normalized source configuration from input paths.
// Params: optional file and directory arguments.
// Returns: source descriptor or validation error.
func FromCLI(filePath, dirPath string) (ConfigSource, error) {
	filePath = strings.TrimSpace(filePath)
	dirPath = strings.TrimSpace(dirPath)

	if filePath != "" && dirPath != "" {
		return ConfigSource{}, errors.New("settings source must be either --settings or --settings-dir")
	}
	return ConfigSource{File: filePath, Dir: dirPath}, nil
}

// IsEmpty reports whether no settings source was given.
func (s ConfigSource) IsEmpty() bool {
	return s.File == "" && s.Dir == ""
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// LoadSnapshot loads and validates settings from one source.
// Params: source selects file, directory, or built-in defaults.
// Returns: validated config or load/validation error.
func LoadSnapshot(src ConfigSource) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch {
	case src.IsEmpty():
		return Default(), nil
	case src.File != "":
		cfg, err = loadFile(src.File)
	case src.Dir != "":
		cfg, err = loadDir(src.Dir)
	}
	if err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile reads one TOML settings file.
// Params: file path.
// Returns: decoded config or read/decode error.
func loadFile(path string) (Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read settings file %q: %w", path, err)
	}
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode settings file %q: %w", path, err)
	}
	return cfg, nil
}

// loadDir reads and merges TOML fragments from one directory.
// Params: directory containing settings fragments.
// Returns: merged config or load/decode error.
func loadDir(dir string) (Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Config{}, fmt.Errorf("read settings dir %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".toml" {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	if len(files) == 0 {
		return Config{}, fmt.Errorf("no .toml files found in %q", dir)
	}
	sort.Strings(files)

	var merged Config
	for _, file := range files {
		fragment, err := loadFile(file)
		if err != nil {
			return Config{}, err
		}
		mergeConfig(&merged, fragment)
	}
	return merged, nil
}

// mergeConfig overlays non-empty sections of src onto dst.
// Params: destination config and next fragment.
// Returns: merged configuration side-effect in dst.
func mergeConfig(dst *Config, src Config) {
	if src.Nagios != (NagiosConfig{}) {
		dst.Nagios = src.Nagios
	}
	if src.Log.Console != (LogSinkConfig{}) {
		dst.Log.Console = src.Log.Console
	}
	if src.Log.File != (LogSinkConfig{}) {
		dst.Log.File = src.Log.File
	}
	if src.Search != (SearchConfig{}) {
		dst.Search = src.Search
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Nagios.MainConfig) == "" {
		cfg.Nagios.MainConfig = DefaultMainConfig
	}
	if strings.TrimSpace(cfg.Nagios.Author) == "" {
		cfg.Nagios.Author = DefaultAuthor
	}

	if cfg.Log.Console.Enabled == nil {
		enabled := true
		cfg.Log.Console.Enabled = &enabled
	}
	if cfg.Log.Console.Level == "" {
		cfg.Log.Console.Level = "info"
	}
	if cfg.Log.Console.Format == "" {
		cfg.Log.Console.Format = "line"
	}
	if cfg.Log.File.Level == "" {
		cfg.Log.File.Level = "info"
	}
	if cfg.Log.File.Format == "" {
		cfg.Log.File.Format = "json"
	}

	if cfg.Search.AllFormat == "" {
		cfg.Search.AllFormat = DefaultAllFormat
	}
	if cfg.Search.HostFormat == "" {
		cfg.Search.HostFormat = DefaultHostFormat
	}
	if cfg.Search.ServiceFormat == "" {
		cfg.Search.ServiceFormat = DefaultServiceFormat
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return fmt.Errorf("settings field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("validate settings: %w", err)
	}

	if cfg.Log.File.IsEnabled() && strings.TrimSpace(cfg.Log.File.Path) == "" {
		return errors.New("log.file.path is required when log.file is enabled")
	}

	templates := []struct {
		path string
		body string
	}{
		{"search.all_format", cfg.Search.AllFormat},
		{"search.host_format", cfg.Search.HostFormat},
		{"search.service_format", cfg.Search.ServiceFormat},
	}
	for _, tmpl := range templates {
		if err := templatefmt.CheckSearchTemplate(tmpl.path, tmpl.body); err != nil {
			return fmt.Errorf("%s is invalid: %w", tmpl.path, err)
		}
	}
	return nil
}
