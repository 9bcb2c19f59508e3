package ratelimit

import (
	"sync"
	"time"

	"portfolio-tracker/pkg/cache"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 30 * time.Minute

// LimiterStore hands out one token bucket per key (e.g. per login name).
// A bucket not used for idleTTL is dropped, so the next call starts full.
type LimiterStore struct {
	limiters cache.Cache
	mu       sync.Mutex
	r        rate.Limit
	burst    int
	idleTTL  time.Duration
}

func NewLimiterStore(r rate.Limit, burst int, idleTTL time.Duration) *LimiterStore {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &LimiterStore{
		limiters: cache.NewCache(idleTTL, 2*idleTTL),
		r:        r,
		burst:    burst,
		idleTTL:  idleTTL,
	}
}

// PerMinute converts a per-minute budget to a rate.Limit. Zero or negative means unlimited.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := cache.GetFromCache[*rate.Limiter](s.limiters, key)
	if !ok {
		limiter = rate.NewLimiter(s.r, s.burst)
	}
	// every access pushes the expiry back
	s.limiters.Set(key, limiter, s.idleTTL)
	return limiter
}

func (s *LimiterStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}
