// Package api exposes the dispute workflow over HTTP: the rendering
// boundary (read-only case state), the action boundary (user actions
// forwarded into the workflow), and the export boundary.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creditops/disputeflow/pkg/database"
	"github.com/creditops/disputeflow/pkg/services"
)

// Server is the HTTP API server.
type Server struct {
	cases  *services.CaseService
	db     *database.Client
	engine *gin.Engine
}

// NewServer creates the API server and registers all routes. db may be nil
// when persistence is disabled; the health endpoint reports accordingly.
func NewServer(cases *services.CaseService, db *database.Client) *Server {
	s := &Server{
		cases:  cases,
		db:     db,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/cases", s.createCase)
		v1.GET("/cases/:id", s.getCase)
		v1.POST("/cases/:id/messages", s.submitUserTurn)
		v1.POST("/cases/:id/advance", s.advanceToSummary)
		v1.POST("/cases/:id/return", s.returnToConversation)
		v1.PUT("/cases/:id/summary", s.saveSummary)
		v1.POST("/cases/:id/analysis", s.submitForAnalysis)
		v1.POST("/cases/:id/questions", s.askQuestion)
		v1.GET("/cases/:id/export", s.exportSummary)
	}
}

// health reports service and database health.
func (s *Server) health(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := database.Health(ctx, s.db.DB())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealth,
	})
}
