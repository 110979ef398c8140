package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/erazemk/cartconsole/internal/model"
)

// Environments.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is the console configuration, read from an optional YAML file and the
// environment.
type Config struct {
	Env         string            `yaml:"env" env:"CARTCONSOLE_ENV" env-default:"local"`
	HTTPServer  HTTPServerConfig  `yaml:"http_server"`
	ShopcartAPI ShopcartAPIConfig `yaml:"shopcart_api"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
}

// HTTPServerConfig configures the console's own HTTP server.
type HTTPServerConfig struct {
	Address           string        `yaml:"address" env:"CARTCONSOLE_ADDR" env-default:":8081"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env-default:"10s"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// ShopcartAPIConfig locates the shopcart API. Values saved on the settings page
// take precedence.
type ShopcartAPIConfig struct {
	BaseURL string        `yaml:"base_url" env:"SHOPCART_API_URL" env-default:"http://localhost:8080"`
	Prefix  string        `yaml:"prefix" env:"SHOPCART_API_PREFIX" env-default:"/shopcarts"`
	Timeout time.Duration `yaml:"timeout" env:"SHOPCART_API_TIMEOUT" env-default:"10s"`
}

// Settings returns the configured API location.
func (c ShopcartAPIConfig) Settings() model.APISettings {
	return model.APISettings{BaseURL: c.BaseURL, Prefix: c.Prefix}
}

// DatabaseConfig configures the settings database.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"CARTCONSOLE_DB" env-default:"cartconsole.sqlite3"`
}

// LogConfig configures logging.
type LogConfig struct {
	Path string `yaml:"path" env:"CARTCONSOLE_LOG"`
}

// Path returns flagValue when set, otherwise $CONFIG_PATH.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

// Load reads the config file at path, then the environment. With an empty path
// only the environment and defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return &cfg, nil
}
