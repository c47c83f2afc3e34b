package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/spf13/viper"
)

// Presence application client IDs, one Discord application per console
const (
	DefaultSwitch1ClientID = "1114647533562646700"
	DefaultSwitch2ClientID = "1420215431465140285"

	DefaultSwitch1CatalogURL = "https://raw.githubusercontent.com/fouwaru/NS2-RPC/refs/heads/master/games.json"
)

// envKeyReplacer maps nested keys to environment names (session.default_console -> SESSION_DEFAULT_CONSOLE)
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Presence PresenceConfig `mapstructure:"presence"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Session  SessionConfig  `mapstructure:"session"`
	Store    StoreConfig    `mapstructure:"store"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// File is the config file that was read, empty when running on defaults
	File string `mapstructure:"-"`
}

// PresenceConfig holds presence service configuration
type PresenceConfig struct {
	Switch1ClientID string `mapstructure:"switch1_client_id"`
	Switch2ClientID string `mapstructure:"switch2_client_id"`
}

// CatalogConfig holds catalog source configuration
type CatalogConfig struct {
	Switch1File string        `mapstructure:"switch1_file"` // Local games.json, read before the URL
	Switch1URL  string        `mapstructure:"switch1_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// SessionConfig holds session defaults
type SessionConfig struct {
	DefaultConsole string        `mapstructure:"default_console"`
	DefaultStatus  string        `mapstructure:"default_status"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // Directory for nsrpc.db; empty = memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	AccentColor string `mapstructure:"accent_color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Presence: PresenceConfig{
			Switch1ClientID: DefaultSwitch1ClientID,
			Switch2ClientID: DefaultSwitch2ClientID,
		},
		Catalog: CatalogConfig{
			Switch1File: "games.json",
			Switch1URL:  DefaultSwitch1CatalogURL,
			HTTPTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			DefaultConsole: string(domain.ConsoleSwitch1),
			DefaultStatus:  domain.DefaultStatusText,
			HealthInterval: 5 * time.Second,
		},
		Store: StoreConfig{
			Path: defaultDataPath(),
		},
		UI: UIConfig{
			AccentColor: "#E60012",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "nsrpc.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "nsrpc")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "nsrpc")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "nsrpc")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "nsrpc")
	}
}

// DefaultConfigFile returns the config file written when no path is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment.
// An explicit path wins over the default search locations.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (NSRPC_SESSION_DEFAULT_CONSOLE, ...)
	v.SetEnvPrefix("NSRPC")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys
// that are absent from the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("presence.switch1_client_id", cfg.Presence.Switch1ClientID)
	v.SetDefault("presence.switch2_client_id", cfg.Presence.Switch2ClientID)
	v.SetDefault("catalog.switch1_file", cfg.Catalog.Switch1File)
	v.SetDefault("catalog.switch1_url", cfg.Catalog.Switch1URL)
	v.SetDefault("catalog.http_timeout", cfg.Catalog.HTTPTimeout)
	v.SetDefault("session.default_console", cfg.Session.DefaultConsole)
	v.SetDefault("session.default_status", cfg.Session.DefaultStatus)
	v.SetDefault("session.health_interval", cfg.Session.HealthInterval)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("ui.accent_color", cfg.UI.AccentColor)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if _, err := domain.ParseConsoleTarget(c.Session.DefaultConsole); err != nil {
		return fmt.Errorf("session.default_console: %w", err)
	}
	if c.Presence.Switch1ClientID == "" || c.Presence.Switch2ClientID == "" {
		return fmt.Errorf("presence client IDs must not be empty")
	}
	if c.Session.HealthInterval < 0 {
		return fmt.Errorf("session.health_interval must not be negative")
	}
	return nil
}

// DefaultConsole returns the parsed default console target
func (c *Config) DefaultConsole() domain.ConsoleTarget {
	target, err := domain.ParseConsoleTarget(c.Session.DefaultConsole)
	if err != nil {
		return domain.ConsoleSwitch1
	}
	return target
}

// ClientID returns the presence application ID for a target
func (c *Config) ClientID(target domain.ConsoleTarget) string {
	if target == domain.ConsoleSwitch2 {
		return c.Presence.Switch2ClientID
	}
	return c.Presence.Switch1ClientID
}

// SaveConfig writes cfg to path, or to the default config location when path is empty.
// It returns the file written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = DefaultConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("presence.switch1_client_id", cfg.Presence.Switch1ClientID)
	v.Set("presence.switch2_client_id", cfg.Presence.Switch2ClientID)

	v.Set("catalog.switch1_file", cfg.Catalog.Switch1File)
	v.Set("catalog.switch1_url", cfg.Catalog.Switch1URL)
	v.Set("catalog.http_timeout", cfg.Catalog.HTTPTimeout.String())

	v.Set("session.default_console", cfg.Session.DefaultConsole)
	v.Set("session.default_status", cfg.Session.DefaultStatus)
	v.Set("session.health_interval", cfg.Session.HealthInterval.String())

	v.Set("store.path", cfg.Store.Path)
	v.Set("ui.accent_color", cfg.UI.AccentColor)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
