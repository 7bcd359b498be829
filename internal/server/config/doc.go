// Package config provides server configuration for respd.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, limits, log settings)
//
// Configuration is loaded via internal/infra/confloader from a YAML or TOML
// file, a .env file and RESPD_* environment variables.
package config
