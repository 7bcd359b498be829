package config

import (
	"time"

	"github.com/yndnr/respd/pkg/resp"
)

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultMaxConns     = 10000
	DefaultRateLimit    = 0
	DefaultRateBurst    = 200

	DefaultMetricsAddr = "127.0.0.1:9121"
	DefaultMetricsPath = "/metrics"

	DefaultShards = 32

	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 14
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	lim := resp.DefaultLimits()
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxConns:     DefaultMaxConns,
				RateLimit:    DefaultRateLimit,
				RateBurst:    DefaultRateBurst,
				MaxBulkLen:   lim.MaxBulkLen,
				MaxElements:  lim.MaxElements,
				MaxDepth:     lim.MaxDepth,
				MaxLineLen:   lim.MaxLineLen,
			},
			Metrics: MetricsConfig{
				Enabled: false,
				Addr:    DefaultMetricsAddr,
				Path:    DefaultMetricsPath,
			},
		},
		Storage: StorageSection{
			Shards: DefaultShards,
		},
		Log: LogSection{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// Limits returns the codec limits configured for the RESP listener.
func (c RedisConfig) Limits() resp.Limits {
	return resp.Limits{
		MaxBulkLen:  c.MaxBulkLen,
		MaxElements: c.MaxElements,
		MaxDepth:    c.MaxDepth,
		MaxLineLen:  c.MaxLineLen,
	}
}
