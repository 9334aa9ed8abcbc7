// Package config loads the service configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the file or individual keys are absent.
const (
	DefaultListenAddr = ":8383"
	DefaultAPIBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout    = 30 * time.Second
	DefaultRenderer   = "vanilla"
	DefaultLogLevel   = "info"
)

// Duration wraps time.Duration so YAML values like "30s" decode directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the runtime settings of the front-end service.
type Config struct {
	// ListenAddr is the HTTP listen address of the form UI.
	ListenAddr string `yaml:"listen_addr"`
	// APIBaseURL points at the prediction server.
	APIBaseURL string `yaml:"api_base_url"`
	// RequestTimeout bounds every call to the prediction server.
	RequestTimeout Duration `yaml:"request_timeout"`
	// Renderer names the default renderer.
	Renderer string `yaml:"renderer"`
	// LogLevel selects the zap level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with every field at its default.
func Default() Config {
	return Config{
		ListenAddr:     DefaultListenAddr,
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: Duration(DefaultTimeout),
		Renderer:       DefaultRenderer,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads the YAML file at path, applying defaults for missing keys. An
// empty path or a missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(DefaultTimeout)
	}
	if strings.TrimSpace(c.Renderer) == "" {
		c.Renderer = DefaultRenderer
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
}
