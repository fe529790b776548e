package middleware

import (
	"net/http"
	"sync"
	"time"

	"shalom/internal/apierror"

	"github.com/gin-gonic/gin"
)

// Sliding-window per-IP rate limiting, kept in memory. Good enough for a
// single-instance deployment; a multi-instance setup would move this to
// Redis.

type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateMap struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
}

func newRateMap() *rateMap {
	return &rateMap{entries: make(map[string]*rateEntry)}
}

func (m *rateMap) get(ip string) *rateEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[ip]
	if !ok {
		entry = &rateEntry{}
		m.entries[ip] = entry
	}
	return entry
}

func (m *rateMap) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ip, entry := range m.entries {
		entry.mu.Lock()
		expired := now.After(entry.windowEnd)
		entry.mu.Unlock()
		if expired {
			delete(m.entries, ip)
		}
	}
}

var (
	loginRates = newRateMap()
	apiRates   = newRateMap()
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limit(loginRates, 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter is the general-purpose API limiter.
func RateLimiter(max int, window time.Duration) gin.HandlerFunc {
	return limit(apiRates, max, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

func limit(rates *rateMap, max int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := rates.get(c.ClientIP())

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > max {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// Expired IPs are purged periodically so the maps don't grow without bound.
const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			loginRates.purge(now)
			apiRates.purge(now)
		}
	}()
}
