package adapter

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nsrpc/nsrpc/internal/domain"
)

func TestDefaultConfig_HasExpectedValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Presence.Switch1ClientID != DefaultSwitch1ClientID {
		t.Errorf("Presence.Switch1ClientID = %q, want %q", cfg.Presence.Switch1ClientID, DefaultSwitch1ClientID)
	}
	if cfg.Presence.Switch2ClientID != DefaultSwitch2ClientID {
		t.Errorf("Presence.Switch2ClientID = %q, want %q", cfg.Presence.Switch2ClientID, DefaultSwitch2ClientID)
	}
	if cfg.Catalog.Switch1File != "games.json" {
		t.Errorf("Catalog.Switch1File = %q, want %q", cfg.Catalog.Switch1File, "games.json")
	}
	if cfg.Session.DefaultStatus != "Online" {
		t.Errorf("Session.DefaultStatus = %q, want %q", cfg.Session.DefaultStatus, "Online")
	}
	if cfg.Session.HealthInterval != 5*time.Second {
		t.Errorf("Session.HealthInterval = %v, want 5s", cfg.Session.HealthInterval)
	}
	if cfg.DefaultConsole() != domain.ConsoleSwitch1 {
		t.Errorf("DefaultConsole() = %q, want %q", cfg.DefaultConsole(), domain.ConsoleSwitch1)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestClientID_PerConsole(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ClientID(domain.ConsoleSwitch1); got != DefaultSwitch1ClientID {
		t.Errorf("ClientID(switch1) = %q, want %q", got, DefaultSwitch1ClientID)
	}
	if got := cfg.ClientID(domain.ConsoleSwitch2); got != DefaultSwitch2ClientID {
		t.Errorf("ClientID(switch2) = %q, want %q", got, DefaultSwitch2ClientID)
	}
}

func TestValidate_RejectsUnknownConsole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.DefaultConsole = "gamecube"

	err := cfg.Validate()
	if !errors.Is(err, domain.ErrUnknownConsole) {
		t.Errorf("Validate() = %v, want ErrUnknownConsole", err)
	}
}

func TestSaveAndLoadConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Session.DefaultConsole = "switch2"
	cfg.Session.DefaultStatus = "Speedrunning"
	cfg.Catalog.HTTPTimeout = 3 * time.Second
	cfg.Store.Path = ""

	written, err := SaveConfig(cfg, path)
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if written != path {
		t.Errorf("SaveConfig() path = %q, want %q", written, path)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.DefaultConsole() != domain.ConsoleSwitch2 {
		t.Errorf("DefaultConsole() = %q, want switch2", loaded.DefaultConsole())
	}
	if loaded.Session.DefaultStatus != "Speedrunning" {
		t.Errorf("Session.DefaultStatus = %q, want %q", loaded.Session.DefaultStatus, "Speedrunning")
	}
	if loaded.Catalog.HTTPTimeout != 3*time.Second {
		t.Errorf("Catalog.HTTPTimeout = %v, want 3s", loaded.Catalog.HTTPTimeout)
	}
	if loaded.Store.Path != "" {
		t.Errorf("Store.Path = %q, want empty", loaded.Store.Path)
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() with missing explicit file should fail")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: WARN\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NSRPC_SESSION_DEFAULT_CONSOLE", "switch2")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultConsole() != domain.ConsoleSwitch2 {
		t.Errorf("DefaultConsole() = %q, want switch2 from environment", cfg.DefaultConsole())
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Logging.Level = %q, want WARN", cfg.Logging.Level)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLogger_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nsrpc.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"}, false)
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	logger.Info("hello")

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
