package middleware

import (
	"net/http"
	"sync"
	"time"

	"carta/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Rate limit tiers.
const (
	// login, registration, checkout
	LimitStrict = rate.Limit(1)
	BurstStrict = 5

	LimitGeneral = rate.Limit(20)
	BurstGeneral = 40
)

// visitor holds the token bucket of one client and when it was last seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors   = make(map[string]*visitor)
	visitorsMu sync.Mutex
)

func init() {
	go cleanupVisitors()
}

func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, ok := visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r, b)}
		visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors drops buckets idle for more than 3 minutes.
func cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		visitorsMu.Lock()
		purged := 0
		for k, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, k)
				purged++
			}
		}
		remaining := len(visitors)
		visitorsMu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter visitors purged")
		}
	}
}

// RateLimiter limits each client IP to r requests per second with burst b.
// tier separates quotas, so a strict endpoint does not eat the general one.
func RateLimiter(tier string, r rate.Limit, b int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := getVisitor("ip:"+c.ClientIP()+":"+tier, r, b)
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
