// Package config loads client configuration from defaults, an optional
// YAML/JSON file, .env files and environment variables, in that order.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Environment is the deployment environment the client runs against.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// Storage drivers for the token store.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageBadger = "badger"
)

// Config holds all client configuration
type Config struct {
	Environment Environment `yaml:"environment" json:"environment"`
	API         API         `yaml:"api" json:"api"`
	Storage     Storage     `yaml:"storage" json:"storage"`
	Logging     Logging     `yaml:"logging" json:"logging"`
	Metrics     Metrics     `yaml:"metrics" json:"metrics"`
	Tracing     Tracing     `yaml:"tracing" json:"tracing"`
	Export      Export      `yaml:"export" json:"export"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-" json:"-"`
}

// API configures the shared HTTP client.
type API struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// Storage configures where session tokens are persisted.
type Storage struct {
	Driver string `yaml:"driver" json:"driver"`
	Dir    string `yaml:"dir" json:"dir"`
	// Watch enables change notifications for the file driver so that a
	// logout in another process is observed.
	Watch bool `yaml:"watch" json:"watch"`
}

type Logging struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
	// Listen serves /metrics on this address when non-empty.
	Listen string `yaml:"listen" json:"listen"`
}

type Tracing struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
}

type Export struct {
	Dir string `yaml:"dir" json:"dir"`
}

// Default returns the configuration used when nothing else is provided.
func Default(env Environment) *Config {
	if env == "" {
		env = Development
	}
	return &Config{
		Environment: env,
		API: API{
			BaseURL:   "http://localhost:8080/api",
			Timeout:   20 * time.Second,
			UserAgent: "ianct-client",
		},
		Storage: Storage{
			Driver: StorageFile,
			Dir:    defaultStorageDir(),
			Watch:  true,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Metrics: Metrics{
			Namespace: "ianct_client",
		},
		Tracing: Tracing{
			Endpoint:    "localhost:4317",
			ServiceName: "ianct-client",
			SampleRate:  1.0,
		},
		Export: Export{
			Dir: ".",
		},
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile, StorageBadger:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if f := c.Logging.Format; f != "json" && f != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", f)
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be within [0,1]")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.API.BaseURL, "/")
}

// App identifies one of the two client applications sharing this module.
type App struct {
	Name          string
	TokenKey      string
	LoginPath     string
	DashboardPath string
}

var (
	AdminApp = App{
		Name:          "admin",
		TokenKey:      "admin_token",
		LoginPath:     "/login",
		DashboardPath: "/dashboard",
	}
	WorkspaceApp = App{
		Name:          "workspace",
		TokenKey:      "token",
		LoginPath:     "/login",
		DashboardPath: "/dashboard",
	}
)
