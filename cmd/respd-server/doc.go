// Package main provides the entry point for respd-server.
//
// respd-server is an in-memory key/value server speaking RESP2 and RESP3.
// It serves string and hash commands over TCP and exposes Prometheus metrics
// on a separate HTTP listener.
//
// Usage:
//
//	respd-server [flags]
//	respd-server -config /etc/respd/respd.yaml -env-file /etc/respd/respd.env
//
// Settings come from built-in defaults, then the config file (YAML or TOML),
// then RESPD_* environment variables. Changes to the log level in the config
// file are applied without a restart.
package main
