package config

import "time"

// ServerConfig is the root configuration for respd-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// MaxConns caps concurrent client connections. 0 means unlimited.
	MaxConns int `koanf:"max_conns"`

	// RateLimit is the sustained commands per second allowed per client IP.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
	RateBurst int `koanf:"rate_burst"`

	// Codec limits. 0 disables the check.
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxElements int `koanf:"max_elements"`
	MaxDepth    int `koanf:"max_depth"`
	MaxLineLen  int `koanf:"max_line_len"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	Path    string `koanf:"path"`
}

// StorageSection configures the in-memory keyspace.
type StorageSection struct {
	// Shards is the number of keyspace shards; must be a power of 2.
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File enables rotated file output instead of stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}
