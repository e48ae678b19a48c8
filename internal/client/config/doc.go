// Package config holds the gophdrive client settings: defaults overlaid by
// an optional JSON or YAML file, then by command-line flags bound in the
// cli package.
package config
