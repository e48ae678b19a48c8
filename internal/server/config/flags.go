package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
)

var serverFlags = []string{
	"-a", "-m", "-e", "-d", "-b", "-p", "-s", "-t", "-l", "-f", "-u",
	"-cookie-secure",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key", "-s3-prefix", "-s3-path-style",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-m string   separate metrics bind address
//	-e string   database driver: sqlite | postgres
//	-d string   database DSN
//	-b string   storage backend: local | s3
//	-p string   local storage root
//	-s string   session token HMAC secret
//	-t int      session validity, minutes
//	-l string   log level
//	-f string   log format: json | text | zerolog
//	-u int      max upload size, bytes
//	-cookie-secure, -s3-*  see usage strings below
//
// os.Args is first narrowed with flagx.FilterArgs so that -c/-config and
// unrelated arguments do not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics")
	fs.StringVar(&config.DatabaseDriver, "e", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.StoragePath, "p", config.StoragePath, "storage root directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.Int64Var(&config.MaxUploadSize, "u", config.MaxUploadSize, "max upload size in bytes")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "mark the session cookie Secure")

	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix")
	fs.BoolVar(&config.S3UsePathStyle, "s3-path-style", config.S3UsePathStyle, "use path-style S3 addressing")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		}
	})
	return nil
}
