package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// both "30m" style strings and integer nanoseconds. Zero values mean "not
// set" and leave the current value untouched; booleans are pointers for the
// same reason.
type FileConfig struct {
	ListenAddr              string         `json:"listen_addr" yaml:"listen_addr"`
	MetricsAddr             string         `json:"metrics_addr" yaml:"metrics_addr"`
	DatabaseDriver          string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN             string         `json:"database_dsn" yaml:"database_dsn"`
	StorageBackend          string         `json:"storage_backend" yaml:"storage_backend"`
	StoragePath             string         `json:"storage_path" yaml:"storage_path"`
	S3Bucket                string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey             string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey             string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Prefix                string         `json:"s3_prefix" yaml:"s3_prefix"`
	S3UsePathStyle          *bool          `json:"s3_use_path_style" yaml:"s3_use_path_style"`
	SecretKey               string         `json:"secret_key" yaml:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration" yaml:"session_validity_duration"`
	CookieSecure            *bool          `json:"cookie_secure" yaml:"cookie_secure"`
	BcryptCost              int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	MaxUploadSize           int64          `json:"max_upload_size" yaml:"max_upload_size"`
	LogFormat               string         `json:"log_format" yaml:"log_format"`
	LogLevel                string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON.
func parseFile(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.MetricsAddr, fc.MetricsAddr)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.StorageBackend, fc.StorageBackend)
	setString(&c.StoragePath, fc.StoragePath)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)
	setString(&c.S3Prefix, fc.S3Prefix)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.LogLevel, fc.LogLevel)

	if fc.S3UsePathStyle != nil {
		c.S3UsePathStyle = *fc.S3UsePathStyle
	}
	if fc.CookieSecure != nil {
		c.CookieSecure = *fc.CookieSecure
	}
	if fc.SessionValidityDuration.Duration != 0 {
		c.SessionValidityDuration = fc.SessionValidityDuration.Duration
	}
	if fc.BcryptCost != 0 {
		c.BcryptCost = fc.BcryptCost
	}
	if fc.MaxUploadSize != 0 {
		c.MaxUploadSize = fc.MaxUploadSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
