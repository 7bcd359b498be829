// Package config provides respd-cli configuration.
//
//   - spec.go: CLIConfig struct (~/.respd/cli.yaml)
//   - loader.go: loading and saving the file
//
// The file holds the default server, the default output format, the request
// timeout and named connection profiles.
package config
