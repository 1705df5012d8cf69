package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Interval() != 3500*time.Millisecond {
		t.Fatalf("default interval = %v, want 3.5s", cfg.Interval())
	}
	if cfg.Hotkeys.Start != "<alt>+s" || cfg.Hotkeys.Pause != "<alt>+p" || cfg.Hotkeys.Quit != "<alt>+q" {
		t.Fatalf("default hotkeys = %+v", cfg.Hotkeys)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output_dir"},
		{"zero interval", func(c *Config) { c.IntervalSeconds = 0 }, "interval_seconds"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad hotkey", func(c *Config) { c.Hotkeys.Pause = "alt+" }, "hotkeys.pause"},
		{"duplicate hotkey", func(c *Config) { c.Hotkeys.Quit = "alt+s" }, "both bound"},
		{"bad backend", func(c *Config) { c.Capture.Backend = "wayland" }, "capture.backend"},
		{"negative display", func(c *Config) { c.Capture.Display = -1 }, "capture.display"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.errSub)
			}
		})
	}
}

func TestNewManagerCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.GetConfigPath() != path {
		t.Fatalf("path = %s, want %s", m.GetConfigPath(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	var onDisk Config
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk != *Defaults() {
		t.Fatalf("written config = %+v, want defaults", onDisk)
	}
}

func TestNewManagerReadsFileWithDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output_dir: /tmp/shots\ninterval_seconds: 1\nhotkeys:\n  pause: ctrl+p\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Get()
	if cfg.OutputDir != "/tmp/shots" || cfg.Interval() != time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Hotkeys.Pause != "ctrl+p" || cfg.Hotkeys.Start != "<alt>+s" {
		t.Fatalf("hotkeys = %+v", cfg.Hotkeys)
	}
	if !cfg.FlushInput || cfg.Capture.Backend != "auto" {
		t.Fatalf("defaults not filled in: %+v", cfg)
	}
}

func TestNewManagerRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("interval_seconds: -2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOverrideDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Override("interval_seconds", "0.25"); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if m.Get().Interval() != 250*time.Millisecond {
		t.Fatalf("interval = %v, want 250ms", m.Get().Interval())
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Get().IntervalSeconds != 3.5 {
		t.Fatal("override was written to disk")
	}
}

func TestOverrideRejectsInvalidAndKeepsOld(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Override("hotkeys.quit", "<alt>+p"); err == nil {
		t.Fatal("duplicate hotkey accepted")
	}
	if m.Get().Hotkeys.Quit != "<alt>+q" {
		t.Fatalf("quit hotkey changed to %q after rejected override", m.Get().Hotkeys.Quit)
	}
	v, _ := m.Value("hotkeys.quit")
	if v != "<alt>+q" {
		t.Fatalf("viper value = %v after rejected override", v)
	}

	if err := m.Override("capture.display", "two"); err == nil {
		t.Fatal("non-numeric display accepted")
	}
	if err := m.Override("no_such_key", 1); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("unknown key error = %v", err)
	}
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Set("notify.desktop", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("output_dir", "/var/tmp/caps"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := reloaded.Get()
	if !cfg.Notify.Desktop || cfg.OutputDir != "/var/tmp/caps" {
		t.Fatalf("reloaded config = %+v", cfg)
	}
}

func TestKeysSorted(t *testing.T) {
	k := Keys()
	if len(k) != len(keys) {
		t.Fatalf("Keys() returned %d keys, want %d", len(k), len(keys))
	}
	for i := 1; i < len(k); i++ {
		if k[i-1] > k[i] {
			t.Fatalf("keys not sorted: %v", k)
		}
	}
}
