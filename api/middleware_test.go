package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/killallgit/podhub/pkg/config"
)

func testSecurity(origins ...string) config.SecurityConfig {
	return config.SecurityConfig{
		EnableCORS:  true,
		CORSOrigins: origins,
		CORSMethods: []string{"GET", "POST", "OPTIONS"},
		CORSHeaders: []string{"Content-Type", "Authorization", "X-Feed-Token"},
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		security        config.SecurityConfig
		method          string
		origin          string
		expectedStatus  int
		expectedHeaders map[string]string
	}{
		{
			name:           "preflight request",
			security:       testSecurity("*"),
			method:         http.MethodOptions,
			origin:         "https://example.com",
			expectedStatus: http.StatusNoContent,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
				"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Feed-Token",
			},
		},
		{
			name:           "regular GET request",
			security:       testSecurity("*"),
			method:         http.MethodGet,
			origin:         "https://example.com",
			expectedStatus: http.StatusOK,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin": "*",
			},
		},
		{
			name:           "listed origin is echoed",
			security:       testSecurity("https://app.example.com"),
			method:         http.MethodGet,
			origin:         "https://app.example.com",
			expectedStatus: http.StatusOK,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin": "https://app.example.com",
				"Vary":                        "Origin",
			},
		},
		{
			name:           "unlisted origin gets no allow header",
			security:       testSecurity("https://app.example.com"),
			method:         http.MethodGet,
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusOK,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.security))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for header, expectedValue := range tt.expectedHeaders {
				assert.Equal(t, expectedValue, w.Header().Get(header), "Header: %s", header)
			}
		})
	}
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	customLimit := int64(512 * 1024)

	tests := []struct {
		name           string
		method         string
		bodySize       int
		expectedStatus int
	}{
		{name: "request under limit", method: http.MethodPost, bodySize: 256 * 1024, expectedStatus: http.StatusOK},
		{name: "request at limit", method: http.MethodPost, bodySize: 512 * 1024, expectedStatus: http.StatusOK},
		{name: "request over limit", method: http.MethodPost, bodySize: 1024 * 1024, expectedStatus: http.StatusRequestEntityTooLarge},
		{name: "GET is not limited", method: http.MethodGet, bodySize: 1024 * 1024, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimitWithSize(customLimit))
			router.Handle(tt.method, "/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		id, _ := c.Get(requestIDKey)
		c.String(http.StatusOK, "%v", id)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps a valid caller id", func(t *testing.T) {
		callerID := uuid.NewString()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, callerID)
		router.ServeHTTP(w, req)

		assert.Equal(t, callerID, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an invalid caller id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		router.ServeHTTP(w, req)

		assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing"} {
		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		})
	}
}

func TestPerClientRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		requestCount      int
		perMinute         int
		burstSize         int
		expectSomeBlocked bool
	}{
		{name: "requests under burst", requestCount: 3, perMinute: 60, burstSize: 5},
		{name: "burst exceeded", requestCount: 6, perMinute: 60, burstSize: 3, expectSomeBlocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rateLimiters := &sync.Map{}
			cleanupStop := make(chan struct{})
			defer close(cleanupStop)

			router := gin.New()
			router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, tt.perMinute, tt.burstSize))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			successCount, blockedCount := 0, 0
			for i := 0; i < tt.requestCount; i++ {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				router.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
					assert.NotEmpty(t, w.Header().Get("Retry-After"))
				}
			}

			if tt.expectSomeBlocked {
				assert.Equal(t, tt.burstSize, successCount)
				assert.Greater(t, blockedCount, 0)
			} else {
				assert.Equal(t, 0, blockedCount)
				assert.Equal(t, tt.requestCount, successCount)
			}
		})
	}
}

func TestPerClientRateLimit_ErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	router := gin.New()
	router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, 30, 1))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		router.ServeHTTP(w, req)
	}

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp struct {
		Error   string                 `json:"error"`
		Details map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "API_RATE_LIMIT", resp.Error)
	assert.Equal(t, "10.0.0.9", resp.Details["resource"])
	assert.Equal(t, "30 requests per minute", resp.Details["limit"])
}

func TestPerClientRateLimit_DifferentClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	router := gin.New()
	router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, 1, 2))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		router.ServeHTTP(w, req)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveIdleLimiters(t *testing.T) {
	now := time.Now()
	rateLimiters := &sync.Map{}
	rateLimiters.Store("idle", &clientLimiter{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)})
	rateLimiters.Store("active", &clientLimiter{limiter: rate.NewLimiter(1, 1), lastSeen: now})
	rateLimiters.Store("junk", "not a limiter")

	removeIdleLimiters(rateLimiters, now, 10*time.Minute)

	_, ok := rateLimiters.Load("idle")
	assert.False(t, ok)
	_, ok = rateLimiters.Load("active")
	assert.True(t, ok)
	_, ok = rateLimiters.Load("junk")
	assert.False(t, ok)
}
