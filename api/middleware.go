package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/internal/metrics"
	"github.com/killallgit/podhub/pkg/config"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CORS answers preflight requests and sets the allow headers. An origin
// list containing "*" allows every origin.
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.CORSMethods, ", ")
	headers := strings.Join(cfg.CORSHeaders, ", ")
	allowAll := len(cfg.CORSOrigins) == 0 || lo.Contains(cfg.CORSOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && lo.Contains(cfg.CORSOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestSizeLimitWithSize rejects write requests whose body exceeds maxBytes
func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Request body too large",
					Error:   string(apperrors.ErrCodeInvalidInput),
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestID tags every request with an ID, reusing the caller's
// X-Request-ID when it is a valid UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs each request through logrus and records it in the
// request metrics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		fields := log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if id, ok := c.Get(requestIDKey); ok {
			fields["request_id"] = id
		}

		entry := log.WithFields(fields)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request completed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}

// PerClientRateLimit allows each client IP perMinute requests per minute
// with the given burst.
func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, perMinute int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go cleanupOldRateLimiters(rateLimiters, cleanupStop)
	})

	every := time.Minute / time.Duration(max(perMinute, 1))
	limit := fmt.Sprintf("%d requests per minute", perMinute)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiterInterface, _ := rateLimiters.LoadOrStore(clientIP, &clientLimiter{
			limiter:  rate.NewLimiter(rate.Every(every), burst),
			lastSeen: time.Now(),
		})

		cl := limiterInterface.(*clientLimiter)
		cl.mu.Lock()
		cl.lastSeen = time.Now()
		cl.mu.Unlock()

		if !cl.limiter.Allow() {
			c.Header("Retry-After", strconv.Itoa(int(every.Seconds())+1))
			appErr := apperrors.RateLimitError(clientIP, limit)
			c.AbortWithStatusJSON(appErr.GetHTTPCode(), types.ErrorBody(appErr))
			return
		}
		c.Next()
	}
}

func cleanupOldRateLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removeIdleLimiters(rateLimiters, time.Now(), 10*time.Minute)
		case <-cleanupStop:
			return
		}
	}
}

func removeIdleLimiters(rateLimiters *sync.Map, now time.Time, idle time.Duration) {
	rateLimiters.Range(func(key, value interface{}) bool {
		cl, ok := value.(*clientLimiter)
		if !ok {
			rateLimiters.Delete(key)
			return true
		}
		cl.mu.Lock()
		stale := now.Sub(cl.lastSeen) > idle
		cl.mu.Unlock()
		if stale {
			rateLimiters.Delete(key)
		}
		return true
	})
}
