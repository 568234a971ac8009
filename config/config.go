// Package config loads service settings from an optional YAML/JSON file
// overlaid with REPARTO_* environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/warp/reparto/calendar"
)

// EnvPrefix is stripped from environment variables; "__" separates levels,
// e.g. REPARTO_SERVER__PORT=9090 sets server.port.
const EnvPrefix = "REPARTO_"

type Config struct {
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
	Calendar CalendarConfig `json:"calendar"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Port                int      `json:"port"`
	ReadTimeoutSeconds  int      `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `json:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `json:"idle_timeout_seconds"`
	AllowedOrigins      []string `json:"allowed_origins"`
	// MaxUploadMB caps the multipart form size of one request.
	MaxUploadMB int `json:"max_upload_mb"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// CalendarConfig holds the default holiday preset merged into every run.
// Requests may override it.
type CalendarConfig struct {
	HolidayPreset string `json:"holiday_preset"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.SetDefaults()
	c.Metrics.Enabled = true
	return c
}

// Load reads path (skipped when empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Set("metrics.enabled", true); err != nil {
		return nil, err
	}

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are read from the environment as comma separated lists.
var listKeys = map[string]bool{
	"server.allowed_origins": true,
}

// envValue maps REPARTO_SERVER__ALLOWED_ORIGINS=a,b to
// server.allowed_origins = [a b].
func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Calendar.Validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	return nil
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 15
	}
	if c.WriteTimeoutSeconds == 0 {
		c.WriteTimeoutSeconds = 15
	}
	if c.IdleTimeoutSeconds == 0 {
		c.IdleTimeoutSeconds = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 10
	}
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 || c.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative")
	}
	return nil
}

// Addr is the listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// MaxUploadBytes converts MaxUploadMB.
func (c ServerConfig) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	}
	return fmt.Errorf("unknown level %q", c.Level)
}

func (c *MetricsConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

func (c MetricsConfig) Validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path %q must start with /", c.Path)
	}
	return nil
}

func (c CalendarConfig) Validate() error {
	if c.HolidayPreset == "" {
		return nil
	}
	for _, name := range calendar.PresetNames() {
		if strings.EqualFold(name, c.HolidayPreset) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", calendar.ErrUnknownPreset, c.HolidayPreset)
}
