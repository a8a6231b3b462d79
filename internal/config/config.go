package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TASKTRACK_"

// ConfigPathEnv names the optional YAML config file.
const ConfigPathEnv = EnvPrefix + "CONFIG_PATH"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	DB        DBConfig        `yaml:"db" envPrefix:"DB_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth" envPrefix:"AUTH_"`
	Progress  ProgressConfig  `yaml:"progress"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Path  string `yaml:"path" env:"PATH"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode" env:"TRANSPORT"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// AuthConfig controls bearer-token auth. When disabled every request acts
// as DefaultTenant and, unless it names a user, DefaultUser.
type AuthConfig struct {
	Enabled       bool   `yaml:"enabled" env:"ENABLED"`
	DefaultTenant string `yaml:"default_tenant" env:"DEFAULT_TENANT"`
	DefaultUser   string `yaml:"default_user" env:"DEFAULT_USER"`
}

// ProgressConfig tunes the per-user project overview.
type ProgressConfig struct {
	// FetchConcurrency caps concurrent per-project task fetches; 0 means unbounded.
	FetchConcurrency int `yaml:"fetch_concurrency" env:"FETCH_CONCURRENCY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "tasktrack.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			DefaultTenant: "default",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed by the field types.
func (c Config) Validate() error {
	var errs []error
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("invalid transport mode %q (want stdio or http)", c.Transport.Mode))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if c.Auth.DefaultTenant == "" && !c.Auth.Enabled {
		errs = append(errs, errors.New("default tenant is required when auth is disabled"))
	}
	if c.Progress.FetchConcurrency < 0 {
		errs = append(errs, fmt.Errorf("invalid fetch concurrency %d", c.Progress.FetchConcurrency))
	}
	return errors.Join(errs...)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
