package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileLoader decodes one configuration file format.
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// Loader applies configuration sources in priority order.
type Loader struct {
	environment Environment
	file        string
	dotenvFiles []string
	sources     []string
	fileLoaders map[string]FileLoader
}

// NewLoader creates a loader for env. An empty env is read from ENVIRONMENT.
func NewLoader(env Environment) *Loader {
	if env == "" {
		env = Environment(getEnv("ENVIRONMENT", string(Development)))
	}
	l := &Loader{
		environment: env,
		dotenvFiles: []string{".env"},
		fileLoaders: make(map[string]FileLoader),
	}
	l.RegisterLoader(&YAMLLoader{})
	l.RegisterLoader(&JSONLoader{})
	return l
}

// RegisterLoader registers a decoder keyed by file extension.
func (l *Loader) RegisterLoader(loader FileLoader) {
	l.fileLoaders[loader.Extension()] = loader
}

// WithFile sets an explicit configuration file. Missing files are an error.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithDotenv replaces the list of .env files consulted. Missing files are
// skipped.
func (l *Loader) WithDotenv(files ...string) *Loader {
	l.dotenvFiles = files
	return l
}

// Load builds the configuration. Priority, lowest first:
//  1. defaults
//  2. the configuration file
//  3. environment variables, after .env files have been merged into the
//     process environment (existing variables win over .env entries)
func (l *Loader) Load() (*Config, error) {
	cfg := Default(l.environment)
	l.sources = append(l.sources[:0], "defaults")

	if l.file != "" {
		if err := l.loadFile(l.file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	for _, f := range l.dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
		l.sources = append(l.sources, f)
	}

	l.loadEnvironmentVariables(cfg)
	l.sources = append(l.sources, "environment")
	cfg.LoadedFrom = append([]string(nil), l.sources...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string, cfg *Config) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	loader, ok := l.fileLoaders[ext]
	if !ok {
		return fmt.Errorf("unsupported config format %q", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := loader.Load(file, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	l.sources = append(l.sources, path)
	return nil
}

// loadEnvironmentVariables overlays environment variables on cfg.
func (l *Loader) loadEnvironmentVariables(cfg *Config) {
	if val := os.Getenv("ENVIRONMENT"); val != "" {
		cfg.Environment = Environment(val)
	}

	if val := os.Getenv("IANCT_API_BASE_URL"); val != "" {
		cfg.API.BaseURL = val
	}
	if val := os.Getenv("IANCT_API_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.API.Timeout = d
		}
	}

	if val := os.Getenv("IANCT_STORAGE_DRIVER"); val != "" {
		cfg.Storage.Driver = val
	}
	if val := os.Getenv("IANCT_STORAGE_DIR"); val != "" {
		cfg.Storage.Dir = val
	}
	if val := os.Getenv("IANCT_STORAGE_WATCH"); val != "" {
		cfg.Storage.Watch = parseBool(val)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("ENABLE_METRICS"); val != "" {
		cfg.Metrics.Enabled = parseBool(val)
	}
	if val := os.Getenv("METRICS_LISTEN"); val != "" {
		cfg.Metrics.Listen = val
	}

	if val := os.Getenv("ENABLE_TRACING"); val != "" {
		cfg.Tracing.Enabled = parseBool(val)
	}
	if val := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = strings.TrimPrefix(strings.TrimPrefix(val, "http://"), "https://")
	}

	if val := os.Getenv("IANCT_EXPORT_DIR"); val != "" {
		cfg.Export.Dir = val
	}
}

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	return yaml.NewDecoder(reader).Decode(target)
}

func (y *YAMLLoader) Extension() string {
	return "yaml"
}

// JSONLoader loads configuration from JSON files. Durations are nanoseconds.
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}

func (j *JSONLoader) Extension() string {
	return "json"
}

// Load is the shorthand used by the binaries.
func Load(path string) (*Config, error) {
	return NewLoader("").WithFile(path).Load()
}

func defaultStorageDir() string {
	if dir := os.Getenv("IANCT_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ianct"
	}
	return filepath.Join(home, ".ianct")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(s string) bool {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return s == "yes"
	}
	return val
}
