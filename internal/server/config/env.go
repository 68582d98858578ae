package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// serverEnv holds raw environment values. Unset variables leave the
// corresponding Config field untouched.
type serverEnv struct {
	EndpointAddrHTTP         *string `env:"HTTP_ADDRESS"`
	EndpointAddrGRPC         *string `env:"GRPC_ADDRESS"`
	StoreBackend             *string `env:"STORE_BACKEND"`
	DatabaseDSN              *string `env:"DATABASE_DSN"`
	SecretKey                *string `env:"SECRET_KEY"`
	SigningAlgorithm         *string `env:"ALGORITHM"`
	AccessTokenExpireMinutes *int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	BcryptCost               *int    `env:"BCRYPT_COST"`
	LogLevel                 *string `env:"LOG_LEVEL"`
}

func parseEnv(config *Config) error {
	var raw serverEnv
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&config.EndpointAddrHTTP, raw.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, raw.EndpointAddrGRPC)
	setString(&config.StoreBackend, raw.StoreBackend)
	setString(&config.DatabaseDSN, raw.DatabaseDSN)
	setString(&config.SecretKey, raw.SecretKey)
	setString(&config.SigningAlgorithm, raw.SigningAlgorithm)
	setString(&config.LogLevel, raw.LogLevel)
	if raw.AccessTokenExpireMinutes != nil {
		config.AccessTokenValidityDuration = time.Duration(*raw.AccessTokenExpireMinutes) * time.Minute
	}
	if raw.BcryptCost != nil {
		config.BcryptCost = *raw.BcryptCost
	}
	return nil
}
