package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-m", ":9100", "-e", "postgres", "-d", "postgres://db",
			"-b", "s3", "-p", "/srv/storage", "-s", "secret", "-t", "30", "-l", "debug", "-f", "zerolog",
			"-u", "1024", "-cookie-secure=true",
			"-s3-bucket", "vault", "-s3-region", "eu-west-1", "-s3-endpoint", "http://minio:9000",
			"-s3-access-key", "admin", "-s3-secret-key", "pw", "-s3-prefix", "drive", "-s3-path-style=false",
		},
			expected: &Config{
				ListenAddr:              "127.0.0.1:9090",
				MetricsAddr:             ":9100",
				DatabaseDriver:          "postgres",
				DatabaseDSN:             "postgres://db",
				StorageBackend:          "s3",
				StoragePath:             "/srv/storage",
				S3Bucket:                "vault",
				S3Region:                "eu-west-1",
				S3BaseEndpoint:          "http://minio:9000",
				S3AccessKey:             "admin",
				S3SecretKey:             "pw",
				S3Prefix:                "drive",
				S3UsePathStyle:          false,
				SecretKey:               "secret",
				SessionValidityDuration: 30 * time.Minute,
				CookieSecure:            true,
				BcryptCost:              7,
				MaxUploadSize:           1024,
				LogFormat:               "zerolog",
				LogLevel:                "debug",
			}},
		{name: "config flag is ignored", args: []string{"cmd", "-c", "conf.yaml", "-a", ":1"},
			expected: &Config{ListenAddr: ":1", BcryptCost: 7, SessionValidityDuration: 90 * time.Second}},
		{name: "bad int", args: []string{"cmd", "-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{BcryptCost: 7, SessionValidityDuration: 90 * time.Second}

			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
