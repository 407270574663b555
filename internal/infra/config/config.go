package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gucli/internal/domain"
)

// Default file locations, relative to the user home directory.
const (
	DefaultConfigFile  = ".config/gucli/commands.yaml"
	DefaultHistoryFile = ".config/gucli/gucli.log"
)

// CommandConfig is the on-disk shape of a single menu entry.
// Notify defaults to true when omitted.
type CommandConfig struct {
	Shell   string `yaml:"shell,omitempty"`
	Command string `yaml:"command"`
	Icon    string `yaml:"icon,omitempty"`
	Notify  *bool  `yaml:"notify,omitempty"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	Backend string `yaml:"backend"` // "auto", "beeep", "notify-send"
	AppName string `yaml:"app_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Commands    []CommandConfig `yaml:"commands"`
	Logger      LoggerConfig    `yaml:"logger"`
	Tracer      TracerConfig    `yaml:"tracer"`
	Notify      NotifyConfig    `yaml:"notify"`
	HistoryFile string          `yaml:"history_file"`
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
		Notify: NotifyConfig{
			Backend: "auto",
			AppName: "gucli",
		},
	}
}

// DefaultPath returns the path of the config file under the user home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigFile), nil
}

// Load reads and validates the configuration at path. A missing file yields
// defaults with no commands; the caller decides whether to Bootstrap.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed. Used by
// the settings collaborator to round-trip edited commands.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Bootstrap creates a default config file at path when none exists (or when
// reset is true), mirroring first-run behavior. Returns true when a file
// was written.
func Bootstrap(path string, reset bool) (bool, error) {
	if !reset {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	cfg := Defaults()
	cfg.Commands = []CommandConfig{
		{Command: "hostname", Icon: "🖥️"},
	}
	if err := Save(cfg, path); err != nil {
		return false, err
	}
	return true, nil
}

// HistoryPath returns the configured history file path, or the default
// location under the user home when unset.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultHistoryFile), nil
}

// Definitions converts the on-disk command records into domain definitions,
// applying the notify-defaults-true rule.
func (c *Config) Definitions() []domain.CommandDefinition {
	defs := make([]domain.CommandDefinition, 0, len(c.Commands))
	for _, cc := range c.Commands {
		notify := true
		if cc.Notify != nil {
			notify = *cc.Notify
		}
		defs = append(defs, domain.CommandDefinition{
			Shell:   domain.Shell(cc.Shell),
			Command: cc.Command,
			Icon:    cc.Icon,
			Notify:  notify,
		})
	}
	return defs
}
