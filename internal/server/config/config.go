// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Store backends understood by the server.
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendSQLite   = "sqlite"
)

// Config holds runtime settings for the authkeeper server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses for the HTTP and gRPC endpoints.
//   - StoreBackend: "memory" (process-local), "postgres" or "sqlite".
//   - DatabaseDSN: PostgreSQL DSN (pgx) or SQLite file path, required for
//     the postgres and sqlite backends.
//   - SecretKey: HMAC secret for signing tokens. Do not use the default in prod.
//   - SigningAlgorithm: HS256, HS384 or HS512.
//   - AccessTokenValidityDuration: default lifetime of issued tokens.
//   - BcryptCost: work factor for password hashing.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	StoreBackend                string
	DatabaseDSN                 string
	SecretKey                   string
	SigningAlgorithm            string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.StoreBackend = StoreBackendMemory
	c.DatabaseDSN = ""
	c.SecretKey = "a_default_secret_key_if_not_set_in_env"
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
}

// Validate reports the first setting that would make the server unusable.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	switch c.SigningAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported signing algorithm %q", c.SigningAlgorithm)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return errors.New("access token lifetime must be positive")
	}
	switch c.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendPostgres, StoreBackendSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%s store requires a database DSN", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	args := os.Args[1:]
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
