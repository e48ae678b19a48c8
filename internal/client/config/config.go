package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/timex"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the gophdrive client.
//
// Fields:
//   - ServerURL: base URL of the server, e.g. http://127.0.0.1:8080.
//   - Timeout: bound for short API calls; transfers are not limited by it.
//   - DownloadDir: where downloads are written when no target is given.
type Config struct {
	ServerURL   string
	Timeout     time.Duration
	DownloadDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 30 * time.Second
	c.DownloadDir = "."
}

// FileConfig is the on-disk shape of the client configuration.
type FileConfig struct {
	ServerURL   string         `json:"server_url" yaml:"server_url"`
	Timeout     timex.Duration `json:"timeout" yaml:"timeout"`
	DownloadDir string         `json:"download_dir" yaml:"download_dir"`
}

// LoadConfig applies defaults and then, when path is not empty, overlays
// the file at path. Files ending in .yaml or .yml are decoded as YAML.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.Timeout.Duration != 0 {
		cfg.Timeout = fc.Timeout.Duration
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	return cfg, nil
}
