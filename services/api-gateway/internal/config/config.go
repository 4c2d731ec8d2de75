package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// APIGatewayConfig holds the runtime configuration of the HTTP gateway.
type APIGatewayConfig struct {
	ServiceName string `env:"API_GATEWAY_NAME"      envDefault:"api-gateway"`
	Environment string `env:"APP_ENV"               envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL"             envDefault:"info"`
	HTTPAddr    string `env:"API_GATEWAY_HTTP_ADDR" envDefault:":8080"`

	ReadHeaderTimeout time.Duration `env:"API_GATEWAY_READ_HEADER_TIMEOUT" envDefault:"5s"`
	RequestTimeout    time.Duration `env:"API_GATEWAY_REQUEST_TIMEOUT"     envDefault:"15s"`

	ConsulAddr string      `env:"CONSUL_ADDR"`
	Auth       AuthService `envPrefix:"AUTH_SERVICE_"`
}

// AuthService locates the auth service. Name is resolved through Consul when
// CONSUL_ADDR is set, Addr is dialed directly otherwise.
type AuthService struct {
	Name string `env:"NAME" envDefault:"auth-service"`
	Addr string `env:"ADDR" envDefault:"localhost:50051"`
}

// NewAPIGatewayConfig loads the configuration from the environment and an optional .env file.
func NewAPIGatewayConfig(logger *zerolog.Logger) *APIGatewayConfig {
	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load api gateway configuration")
	}

	return cfg
}

// Load parses and validates the configuration.
func Load() (*APIGatewayConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[APIGatewayConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("missing API_GATEWAY_HTTP_ADDR environment variable")
	}
	if cfg.ConsulAddr == "" && cfg.Auth.Addr == "" {
		return nil, fmt.Errorf("missing AUTH_SERVICE_ADDR environment variable")
	}

	return &cfg, nil
}
