// Package server is an in-memory stand-in for the session processing API.
//
// It honours the endpoint contract the client depends on (paths, payload
// fields, detail errors, page clamping) with canned processing results, so the
// client can be exercised end to end without the real backend.
package server

import (
	"log/slog"
	"net/http"

	"github.com/alkime/sessions/internal/config"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where the API is mounted, matching the default base URL.
const APIPrefix = "/api/v1"

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	store  *memoryStore
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		store:  newMemoryStore(),
	}

	setupMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port, "prefix", APIPrefix)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group(APIPrefix)
	{
		api.GET("/config", s.handleConfig)

		api.POST("/sessions/upload", s.handleUpload)
		api.GET("/sessions", s.handleListSessions)
		api.POST("/sessions/:id/transcribe", s.handleTranscribe)
		api.POST("/sessions/:id/diarize", s.handleDiarize)
		api.POST("/sessions/:id/notes", s.handleGenerateNotes)
		api.GET("/sessions/:id/notes", s.handleGetNotes)
		api.POST("/sessions/:id/process-large", s.handleProcessLarge)

		api.GET("/transcripts/:fileKey", s.handleGetTranscript)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sessions-fake",
	})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"API_BASE_URL": s.config.APIBaseURL})
}

// abortDetail writes the error shape the client surfaces to users.
func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
