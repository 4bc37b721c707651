package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/pkg/config"
)

// Server represents the HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	cfg                *config.Config
	feedCache          feeds.DocumentCache
	rateLimiters       *sync.Map
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}
	stopOnce           sync.Once

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		engine:       engine,
		cfg:          cfg,
		rateLimiters: &sync.Map{},
		cleanupStop:  make(chan struct{}),
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        engine,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.ReadTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// SetFeedCache registers the document cache so it is stopped on shutdown
func (s *Server) SetFeedCache(cache feeds.DocumentCache) {
	s.feedCache = cache
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return RegisterRoutes(s.engine, s.cfg, s.dependencies, s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	if s.cfg.Security.EnableRequestID {
		s.engine.Use(RequestID())
	}

	s.engine.Use(RequestLogger())

	if s.cfg.Security.EnableCORS {
		s.engine.Use(CORS(s.cfg.Security))
	}

	maxBytes := s.cfg.Security.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = 1024 * 1024
	}
	s.engine.Use(RequestSizeLimitWithSize(maxBytes))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		if s.feedCache != nil {
			s.feedCache.Stop()
		}
		close(s.cleanupStop)
	})

	return s.httpServer.Shutdown(ctx)
}
