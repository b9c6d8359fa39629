package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig is the local HTTP server setup, read from SERVER_PORT and
// SERVER_PREFIX.
type ServerConfig struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`
}

func LoadServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("SERVER", &cfg); err != nil {
		return nil, fmt.Errorf("loading server config: %w", err)
	}
	return &cfg, nil
}

func (c *ServerConfig) Addr() string {
	return "0.0.0.0:" + c.Port
}
