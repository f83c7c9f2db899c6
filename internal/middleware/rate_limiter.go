package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockatelier/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipEntry tracks login attempts per IP within a sliding window.
type ipEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	ipMap   = make(map[string]*ipEntry)
	ipMapMu sync.Mutex
)

// LoginRateLimiter throttles credential guessing: 20 attempts per IP per
// minute.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		ipMapMu.Lock()
		entry, exists := ipMap[ip]
		if !exists {
			entry = &ipEntry{}
			ipMap[ip] = entry
		}
		ipMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(time.Minute)
		}

		entry.count++
		if entry.count > 20 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, try again in a minute"))
			return
		}
		c.Next()
	}
}

// Periodically drops expired entries so IPs that never return do not
// accumulate for the process lifetime.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		ipMapMu.Lock()
		purged := 0
		for ip, entry := range ipMap {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(ipMap, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(ipMap)
		ipMapMu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("login rate limiter map purged")
		}
	}
}
