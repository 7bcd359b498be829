// Package confloader loads configuration with koanf.
//
// Sources, later overriding earlier:
//
//  1. Defaults already present in the target struct
//  2. Configuration file (.yaml, .yml or .toml)
//  3. Variables from an optional .env file
//  4. Environment variables carrying the prefix (RESPD_ by default)
//
// Environment names are matched against the koanf tags of the target, so
// RESPD_SERVER_REDIS_READ_TIMEOUT sets server.redis.read_timeout.
//
// Watcher notifies callbacks when a watched file is rewritten, which the
// server uses to apply log level changes without a restart.
package confloader
