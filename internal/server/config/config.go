// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the gophdrive server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP API.
//   - MetricsAddr: optional separate listener for /metrics; empty serves it on ListenAddr.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (file path) or "postgres" (pgx DSN).
//   - StorageBackend: "local" keeps bytes under StoragePath, "s3" in S3Bucket.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use the default in prod.
//     Empty means an ephemeral random secret is minted at startup.
//   - SessionValidityDuration: lifetime of the session cookie and its token.
//   - BcryptCost: password hashing cost.
//   - MaxUploadSize: upper bound for one upload request body, in bytes.
type Config struct {
	ListenAddr  string
	MetricsAddr string

	DatabaseDriver string
	DatabaseDSN    string

	StorageBackend string
	StoragePath    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
	S3UsePathStyle bool

	SecretKey               string
	SessionValidityDuration time.Duration
	CookieSecure            bool
	BcryptCost              int
	MaxUploadSize           int64

	LogFormat string
	LogLevel  string
}

// LoadDefaults populates Config with development defaults.
// The secret key is left empty; the server then signs sessions with a random
// per-process secret.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.MetricsAddr = ""
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "gophdrive.db"
	c.StorageBackend = "local"
	c.StoragePath = "storage"
	c.S3Bucket = "gophdrive"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3UsePathStyle = true
	c.SecretKey = ""
	c.SessionValidityDuration = 24 * time.Hour
	c.CookieSecure = false
	c.BcryptCost = 10
	c.MaxUploadSize = 100 << 20
	c.LogFormat = "json"
	c.LogLevel = "info"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.StorageBackend {
	case "local":
		if c.StoragePath == "" {
			return fmt.Errorf("storage path is required for the local backend")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}
	if c.SessionValidityDuration <= 0 {
		return fmt.Errorf("session validity must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
