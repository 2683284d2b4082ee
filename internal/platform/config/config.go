package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FileName  = "chapterly.yaml"
	envPrefix = "CHAPTERLY_"
)

type Config struct {
	HomePath       string `yaml:"-"`
	DBPath         string `yaml:"db_path"`
	TimerStatePath string `yaml:"timer_state_path"`
	SurfacePath    string `yaml:"surface_path"`
	PluginsPath    string `yaml:"plugins_path"`
	ExportPath     string `yaml:"export_path"`

	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
	Timer   TimerConfig   `yaml:"timer"`
	Widget  WidgetConfig  `yaml:"widget"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CatalogConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

type WidgetConfig struct {
	PublishAttempts int           `yaml:"publish_attempts"`
	RetryBaseDelay  time.Duration `yaml:"retry_base_delay"`
}

// New resolves the data home and loads <home>/chapterly.yaml plus CHAPTERLY_* overrides.
// Without a flag or CHAPTERLY_HOME the home is ~/.chapterly.
func New(homePath string) (Config, error) {
	if _, ok := os.LookupEnv(envPrefix + "HOME"); homePath == "" && !ok {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		homePath = filepath.Join(userHome, ".chapterly")
	}
	return Load(homePath, os.LookupEnv)
}

func Load(homePath string, lookupEnv func(string) (string, bool)) (Config, error) {
	if homePath == "" {
		if v, ok := lookupEnv(envPrefix + "HOME"); ok {
			homePath = v
		}
	}
	if homePath == "" {
		return Config{}, fmt.Errorf("home path is required")
	}

	cfg := defaults(homePath)
	if err := cfg.overlayFile(filepath.Join(homePath, FileName)); err != nil {
		return Config{}, err
	}
	if err := cfg.overlayEnv(lookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func defaults(homePath string) Config {
	return Config{
		HomePath:       homePath,
		DBPath:         filepath.Join(homePath, "chapterly.db"),
		TimerStatePath: filepath.Join(homePath, "state", "timer.json"),
		SurfacePath:    filepath.Join(homePath, "state", "widget.json"),
		PluginsPath:    filepath.Join(homePath, "plugins", "plugins.json"),
		ExportPath:     filepath.Join(homePath, "reading-log"),
		Log:            LogConfig{Level: "info", Format: "text"},
		Catalog: CatalogConfig{
			BaseURL: "https://www.googleapis.com/books/v1",
			Timeout: 10 * time.Second,
		},
		Timer:  TimerConfig{TickInterval: time.Second},
		Widget: WidgetConfig{PublishAttempts: 3, RetryBaseDelay: 50 * time.Millisecond},
	}
}

func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv(lookupEnv func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookupEnv(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookupEnv(envPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("CATALOG_URL", &c.Catalog.BaseURL)
	str("CATALOG_API_KEY", &c.Catalog.APIKey)
	str("PLUGINS_PATH", &c.PluginsPath)
	if err := dur("CATALOG_TIMEOUT", &c.Catalog.Timeout); err != nil {
		return err
	}
	if err := dur("TICK_INTERVAL", &c.Timer.TickInterval); err != nil {
		return err
	}
	if v, ok := lookupEnv(envPrefix + "PUBLISH_ATTEMPTS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sPUBLISH_ATTEMPTS: %w", envPrefix, err)
		}
		c.Widget.PublishAttempts = n
	}
	return nil
}

func (c Config) validate() error {
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive")
	}
	if c.Widget.PublishAttempts <= 0 {
		return fmt.Errorf("widget.publish_attempts must be positive")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	return nil
}
