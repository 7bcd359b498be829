package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respd/internal/telemetry/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

func verifyServer(cfg *ServerSection) error {
	r := &cfg.Redis
	if err := verifyAddr("server.redis.addr", r.Addr); err != nil {
		return err
	}
	if r.ReadTimeout < 0 || r.WriteTimeout < 0 || r.IdleTimeout < 0 {
		return invalid("server.redis", "timeouts must not be negative")
	}
	if r.MaxConns < 0 {
		return invalid("server.redis.max_conns", "must not be negative")
	}
	if r.RateLimit < 0 {
		return invalid("server.redis.rate_limit", "must not be negative")
	}
	if r.RateLimit > 0 && r.RateBurst < 1 {
		return invalid("server.redis.rate_burst", "must be at least 1 when rate_limit is set")
	}
	if r.MaxBulkLen < 0 || r.MaxElements < 0 || r.MaxDepth < 0 || r.MaxLineLen < 0 {
		return invalid("server.redis", "codec limits must not be negative")
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return invalid("server.metrics.path", "must start with '/'")
		}
		if addrConflict(cfg.Metrics.Addr, r.Addr) {
			return invalid("server.metrics.addr", "conflicts with server.redis.addr")
		}
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return invalid(key, "is required")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return invalid(key, "%q: %v", addr, err)
	}
	return nil
}

// addrConflict reports whether two listen addresses would bind the same
// port. An empty or unspecified host covers every interface.
func addrConflict(a, b string) bool {
	ha, pa, err := net.SplitHostPort(a)
	if err != nil {
		return false
	}
	hb, pb, err := net.SplitHostPort(b)
	if err != nil || pa != pb {
		return false
	}
	return wildcardHost(ha) || wildcardHost(hb) || ha == hb
}

func wildcardHost(h string) bool {
	if h == "" {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsUnspecified()
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.Shards < 1 || cfg.Shards&(cfg.Shards-1) != 0 {
		return invalid("storage.shards", "must be a power of 2, got %d", cfg.Shards)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return invalid("log.level", "unknown level %q", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
	default:
		return invalid("log.format", "must be json or text, got %q", cfg.Format)
	}
	if cfg.File != "" && (cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0) {
		return invalid("log", "rotation settings must not be negative")
	}
	return nil
}
