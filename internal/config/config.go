package config

import (
	"encoding/base64"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	SigningKey     []byte
	AllowedOrigins []string
}

// envConfig mirrors Config with the values still in their textual form.
type envConfig struct {
	ServerAddr     string   `env:"COLLEGEHUB_ADDR"`
	DatabaseDSN    string   `env:"COLLEGEHUB_DSN"`
	SigningKey     string   `env:"COLLEGEHUB_SIGNING_KEY"`
	AllowedOrigins []string `env:"COLLEGEHUB_ALLOWED_ORIGINS" envSeparator:","`
}

// FromEnv reads configuration defaults from the environment. Flag values
// passed to NewConfig take precedence over anything read here.
func FromEnv() (addr, dsn, signingKey string, origins []string, err error) {
	var c envConfig
	if err := env.Parse(&c); err != nil {
		return "", "", "", nil, fmt.Errorf("parse env: %w", err)
	}

	return c.ServerAddr, c.DatabaseDSN, c.SigningKey, c.AllowedOrigins, nil
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		ServerAddr:     serverAddr,
		DatabaseDSN:    databaseDSN,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
	}, nil
}
