package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/bryanchriswhite/tortor/internal/capture"
	"github.com/bryanchriswhite/tortor/internal/hotkey"
	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned for configuration keys that do not exist
var ErrUnknownKey = errors.New("unknown configuration key")

// HotkeyConfig holds the three global shortcuts
type HotkeyConfig struct {
	Start string `json:"start" yaml:"start" mapstructure:"start"`
	Pause string `json:"pause" yaml:"pause" mapstructure:"pause"`
	Quit  string `json:"quit" yaml:"quit" mapstructure:"quit"`
}

// CaptureConfig selects the capture backend
type CaptureConfig struct {
	// Backend is one of "auto", "screenshot", "x11"
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	// Display is the monitor index for the screenshot backend (0 = primary)
	Display int `json:"display" yaml:"display" mapstructure:"display"`
}

// NotifyConfig controls desktop notifications
type NotifyConfig struct {
	Desktop bool `json:"desktop" yaml:"desktop" mapstructure:"desktop"`
}

// Config represents the application configuration
type Config struct {
	OutputDir       string        `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	IntervalSeconds float64       `json:"interval_seconds" yaml:"interval_seconds" mapstructure:"interval_seconds"`
	LogLevel        string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat       string        `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	Hotkeys         HotkeyConfig  `json:"hotkeys" yaml:"hotkeys" mapstructure:"hotkeys"`
	Capture         CaptureConfig `json:"capture" yaml:"capture" mapstructure:"capture"`
	Notify          NotifyConfig  `json:"notify" yaml:"notify" mapstructure:"notify"`
	FlushInput      bool          `json:"flush_input" yaml:"flush_input" mapstructure:"flush_input"`
}

// Interval returns the time between captures
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

// Defaults returns the default configuration
func Defaults() *Config {
	return &Config{
		OutputDir:       "./screenshots/",
		IntervalSeconds: 3.5,
		LogLevel:        "info",
		LogFormat:       string(logger.FormatAuto),
		Hotkeys: HotkeyConfig{
			Start: "<alt>+s",
			Pause: "<alt>+p",
			Quit:  "<alt>+q",
		},
		Capture: CaptureConfig{
			Backend: capture.BackendAuto,
			Display: 0,
		},
		Notify: NotifyConfig{
			Desktop: false,
		},
		FlushInput: true,
	}
}

// keyKind is the value type of a configuration key
type keyKind int

const (
	kindString keyKind = iota
	kindFloat
	kindInt
	kindBool
)

var keys = map[string]keyKind{
	"output_dir":       kindString,
	"interval_seconds": kindFloat,
	"log_level":        kindString,
	"log_format":       kindString,
	"hotkeys.start":    kindString,
	"hotkeys.pause":    kindString,
	"hotkeys.quit":     kindString,
	"capture.backend":  kindString,
	"capture.display":  kindInt,
	"notify.desktop":   kindBool,
	"flush_input":      kindBool,
}

// Keys returns every settable configuration key, sorted
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks the configuration for values the program cannot run with
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %v", c.IntervalSeconds)
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log_level %q (use: debug, info, warn, error)", c.LogLevel)
	}
	switch logger.Format(c.LogFormat) {
	case logger.FormatAuto, logger.FormatPretty, logger.FormatJSON:
	default:
		return fmt.Errorf("invalid log_format %q (use: auto, pretty, json)", c.LogFormat)
	}

	seen := make(map[hotkey.Binding]string)
	for _, hk := range []struct{ name, value string }{
		{"hotkeys.start", c.Hotkeys.Start},
		{"hotkeys.pause", c.Hotkeys.Pause},
		{"hotkeys.quit", c.Hotkeys.Quit},
	} {
		b, err := hotkey.Parse(hk.value)
		if err != nil {
			return fmt.Errorf("%s: %w", hk.name, err)
		}
		if other, dup := seen[b]; dup {
			return fmt.Errorf("%s and %s are both bound to %s", other, hk.name, b)
		}
		seen[b] = hk.name
	}

	validBackend := false
	for _, b := range capture.Backends {
		if c.Capture.Backend == b {
			validBackend = true
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid capture.backend %q (use: auto, screenshot, x11)", c.Capture.Backend)
	}
	if c.Capture.Display < 0 {
		return fmt.Errorf("capture.display must not be negative, got %d", c.Capture.Display)
	}
	return nil
}

// Manager handles configuration
type Manager struct {
	configPath string
	v          *viper.Viper
	config     *Config
	mu         sync.RWMutex
}

// DefaultPath returns $XDG_CONFIG_HOME/tortor/config.yaml
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("tortor", "config.yaml"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// NewManager loads configFile, or the default path when empty. A missing
// file is created with defaults.
func NewManager(configFile string) (*Manager, error) {
	path := configFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	m := &Manager{
		configPath: path,
		v:          v,
	}

	log := logger.WithComponent("config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Info().
			Str("path", path).
			Msg("Config file not found, creating new config")
		m.config = Defaults()
		if err := m.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return m, nil
	}

	cfg, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.config = cfg

	log.Debug().
		Str("path", m.configPath).
		Str("output_dir", cfg.OutputDir).
		Float64("interval_seconds", cfg.IntervalSeconds).
		Msg("Config loaded")
	return m, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("interval_seconds", d.IntervalSeconds)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("hotkeys.start", d.Hotkeys.Start)
	v.SetDefault("hotkeys.pause", d.Hotkeys.Pause)
	v.SetDefault("hotkeys.quit", d.Hotkeys.Quit)
	v.SetDefault("capture.backend", d.Capture.Backend)
	v.SetDefault("capture.display", d.Capture.Display)
	v.SetDefault("notify.desktop", d.Notify.Desktop)
	v.SetDefault("flush_input", d.FlushInput)
}

// decode unmarshals and validates the viper state
func (m *Manager) decode() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}
	return &cfg, nil
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return Defaults()
	}
	cfg := *m.config
	return &cfg
}

// Value returns the current value of key
func (m *Manager) Value(key string) (interface{}, error) {
	if _, ok := keys[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.Get(key), nil
}

// Override changes key for this process only. The result must validate.
func (m *Manager) Override(key string, value interface{}) error {
	kind, ok := keys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	typed, err := convert(kind, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.v.Get(key)
	m.v.Set(key, typed)
	cfg, err := m.decode()
	if err != nil {
		m.v.Set(key, old)
		return err
	}
	m.config = cfg
	return nil
}

// Set changes key and saves the file
func (m *Manager) Set(key string, value interface{}) error {
	if err := m.Override(key, value); err != nil {
		return err
	}
	return m.Save()
}

func convert(kind keyKind, value interface{}) (interface{}, error) {
	switch kind {
	case kindFloat:
		return cast.ToFloat64E(value)
	case kindInt:
		return cast.ToIntE(value)
	case kindBool:
		return cast.ToBoolE(value)
	default:
		return cast.ToStringE(value)
	}
}

// Save saves the current configuration to disk
func (m *Manager) Save() error {
	cfg := m.Get()
	log := logger.WithComponent("config")

	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		log.Error().
			Err(err).
			Str("path", m.configPath).
			Msg("Failed to write config")
		return fmt.Errorf("failed to write config: %w", err)
	}

	log.Debug().
		Str("path", m.configPath).
		Msg("Config saved")
	return nil
}

// GetConfigPath returns the configuration file path
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
