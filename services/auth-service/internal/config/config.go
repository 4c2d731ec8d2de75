package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// AuthServiceConfig holds the runtime configuration of the auth service.
type AuthServiceConfig struct {
	ServiceName string `env:"AUTH_SERVICE_NAME" envDefault:"auth-service"`
	Environment string `env:"APP_ENV"           envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL"         envDefault:"info"`
	GRPCAddr    string `env:"AUTH_SERVICE_GRPC_ADDR" envDefault:":50051"`

	// AdvertiseHost is the address other services use to reach this instance.
	AdvertiseHost string `env:"AUTH_SERVICE_ADVERTISE_HOST" envDefault:"localhost"`
	ConsulAddr    string `env:"CONSUL_ADDR"`

	Mongo  MongoConfig  `envPrefix:"MONGO_"`
	Token  TokenConfig  `envPrefix:"APP_JWT_"`
	Google GoogleConfig `envPrefix:"GOOGLE_"`
}

// MongoConfig holds the database connection settings.
type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"blob"`
}

// TokenConfig holds the session token settings.
// An empty Secret is reported by the session codec, not here.
type TokenConfig struct {
	Secret string `env:"SECRET"`
	Issuer string `env:"ISSUER" envDefault:"blob-api"`
}

// GoogleConfig holds the trusted Google OAuth client IDs, one per platform.
type GoogleConfig struct {
	WebClientID     string        `env:"CLIENT_ID"`
	AndroidClientID string        `env:"CLIENT_ID_ANDROID"`
	IOSClientID     string        `env:"CLIENT_ID_IOS"`
	VerifyTimeout   time.Duration `env:"VERIFY_TIMEOUT" envDefault:"10s"`
}

// Audiences returns every configured client ID.
func (c GoogleConfig) Audiences() []string {
	var audiences []string
	for _, id := range []string{c.WebClientID, c.AndroidClientID, c.IOSClientID} {
		if id != "" {
			audiences = append(audiences, id)
		}
	}
	return audiences
}

// NewAuthServiceConfig loads the configuration from the environment and an optional .env file.
func NewAuthServiceConfig(logger *zerolog.Logger) *AuthServiceConfig {
	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load auth service configuration")
	}

	return cfg
}

// Load parses and validates the configuration.
func Load() (*AuthServiceConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AuthServiceConfig) validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.GRPCAddr == "" {
		return fmt.Errorf("missing AUTH_SERVICE_GRPC_ADDR environment variable")
	}

	return nil
}
