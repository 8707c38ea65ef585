// Package config provides application configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// envKeys maps recognised environment variables to config keys.
var envKeys = map[string]string{
	"PORT":            "port",
	"FRONTEND_URL":    "frontend_url",
	"DB_PATH":         "db_path",
	"STORE_DRIVER":    "store_driver",
	"CONTENT_FILE":    "content_file",
	"ALLOWED_ORIGINS": "allowed_origins",
}

// Config holds all application configuration.
type Config struct {
	Port           string `koanf:"port"`
	FrontendURL    string `koanf:"frontend_url"`
	DBPath         string `koanf:"db_path"`
	StoreDriver    string `koanf:"store_driver"`
	ContentFile    string `koanf:"content_file"`
	AllowedOrigins string `koanf:"allowed_origins"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:        "8080",
		DBPath:      "./data/mechanics.db",
		StoreDriver: DriverSQLite,
	}
}

// Load reads configuration from environment variables over the defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreDriver {
	case DriverSQLite, DriverBolt:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %q, %q, %q, got %q", DriverSQLite, DriverBolt, DriverMemory, c.StoreDriver)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// Origins returns the allowed CORS origins. Development allows any
// origin; otherwise the frontend URL is always allowed.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	if len(origins) == 0 && c.IsDevelopment() {
		return []string{"*"}
	}
	return origins
}

// OriginHosts returns Origins stripped of their scheme, the form
// WebSocket origin patterns expect.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		hosts = append(hosts, strings.TrimSuffix(o, "/"))
	}
	return hosts
}
