package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creditops/disputeflow/pkg/export"
)

// messageRequest is the body for chat-style actions.
type messageRequest struct {
	Content string `json:"content"`
}

// summaryRequest is the body for PUT /cases/:id/summary.
type summaryRequest struct {
	CaseSummary string `json:"case_summary"`
}

// createCase handles POST /api/v1/cases.
func (s *Server) createCase(c *gin.Context) {
	snap := s.cases.CreateCase(c.Request.Context())
	c.JSON(http.StatusCreated, snap)
}

// getCase handles GET /api/v1/cases/:id.
func (s *Server) getCase(c *gin.Context) {
	snap, err := s.cases.GetCase(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// submitUserTurn handles POST /api/v1/cases/:id/messages.
func (s *Server) submitUserTurn(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.cases.SubmitUserTurn(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// advanceToSummary handles POST /api/v1/cases/:id/advance.
func (s *Server) advanceToSummary(c *gin.Context) {
	snap, err := s.cases.AdvanceToSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// returnToConversation handles POST /api/v1/cases/:id/return.
func (s *Server) returnToConversation(c *gin.Context) {
	snap, err := s.cases.ReturnToConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// saveSummary handles PUT /api/v1/cases/:id/summary.
func (s *Server) saveSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.cases.SaveSummary(c.Request.Context(), c.Param("id"), req.CaseSummary)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// submitForAnalysis handles POST /api/v1/cases/:id/analysis. The request
// blocks until the orchestrator call and, when a decision exists, the
// resolution generation settle; the response carries the settled state.
func (s *Server) submitForAnalysis(c *gin.Context) {
	snap, err := s.cases.SubmitForAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// askQuestion handles POST /api/v1/cases/:id/questions.
func (s *Server) askQuestion(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.cases.AskQuestion(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// exportSummary handles GET /api/v1/cases/:id/export.
func (s *Server) exportSummary(c *gin.Context) {
	doc, err := s.cases.ExportSummary(c.Param("id"))
	if err != nil {
		if errors.Is(err, export.ErrIncomplete) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dispute-summary.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}
