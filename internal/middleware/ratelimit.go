package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
	"golang.org/x/time/rate"
)

const limiterCleanupInterval = 5 * time.Minute

// ipLimiter hands out one token bucket per client IP
type ipLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	l.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket has refilled, i.e. idle clients.
func (l *ipLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < limiterCleanupInterval {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitByIP allows perMinute requests per client IP, all of them
// available as a burst. Used on the credential endpoints.
func RateLimitByIP(perMinute int, logger *logrus.Logger) gin.HandlerFunc {
	l := &ipLimiter{
		rate:        rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:       perMinute,
		lastCleanup: time.Now(),
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := l.get(key)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			delay := reservation.Delay()
			reservation.Cancel()

			retryAfter := max(int(delay.Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.WithFields(logrus.Fields{
				"ip":          key,
				"uri":         c.Request.URL.Path,
				"retry_after": retryAfter,
			}).Warn("Rate limit exceeded")

			apierrors.TooManyRequests(c, "Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}
