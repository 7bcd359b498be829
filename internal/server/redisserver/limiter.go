package redisserver

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const (
	limiterCacheSize = 10000
	limiterTTL       = 10 * time.Minute
)

// ipLimiter keeps one token bucket per client IP. Buckets live in an LRU so
// a scan from many addresses cannot grow memory without bound.
type ipLimiter struct {
	mu    sync.Mutex
	cache gcache.Cache
	limit rate.Limit
	burst int
	ttl   time.Duration
}

func newIPLimiter(perSecond, burst int) *ipLimiter {
	if burst < 1 {
		burst = perSecond
	}
	return &ipLimiter{
		cache: gcache.New(limiterCacheSize).LRU().Build(),
		limit: rate.Limit(perSecond),
		burst: burst,
		ttl:   limiterTTL,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, err := l.cache.Get(ip); err == nil {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	_ = l.cache.SetWithExpire(ip, lim, l.ttl)
	return lim
}

// Allow reports whether ip may run one more command now.
func (l *ipLimiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}
