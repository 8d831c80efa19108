package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort        string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	AllowedOrigins  []string      `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-default:"*"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	Players         Players       `yaml:"players"`
	Notifier        Notifier      `yaml:"notifier"`
}

type Players struct {
	XName string `yaml:"x-name" env:"PLAYER_X_NAME" env-default:"X"`
	OName string `yaml:"o-name" env:"PLAYER_O_NAME" env-default:"O"`
}

type Notifier struct {
	Buffer int `yaml:"buffer" env:"NOTIFIER_BUFFER" env-default:"16"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the config file, then applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// GetHTTPAddr - the listen address of the HTTP server.
func (that *Config) GetHTTPAddr() string {
	return ":" + that.HTTPPort
}
