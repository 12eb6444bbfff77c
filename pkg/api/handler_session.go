package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/ventureforge/pkg/models"
	"github.com/ventureforge/ventureforge/pkg/services"
)

// createSessionHandler handles POST /api/v1/sessions.
// An empty body starts an anonymous session.
func (s *Server) createSessionHandler(c *gin.Context) {
	var req models.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}
	}

	sess, err := s.sessionService.CreateSession(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	slog.Info("Session created via API", "session_id", sess.ID, "author", extractAuthor(c))
	c.JSON(http.StatusCreated, sess.Response())
}

// listSessionsHandler handles GET /api/v1/sessions?limit=N.
func (s *Server) listSessionsHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, services.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	resp, err := s.sessionService.ListSessions(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSessionHandler handles GET /api/v1/sessions/:id.
func (s *Server) getSessionHandler(c *gin.Context) {
	sess, err := s.sessionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Response())
}

// deleteSessionHandler handles DELETE /api/v1/sessions/:id.
func (s *Server) deleteSessionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := s.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{SessionID: id, Message: "session deleted"})
}

// sendMessageHandler handles POST /api/v1/sessions/:id/messages.
// Runs one journey turn synchronously and returns the assistant reply.
func (s *Server) sendMessageHandler(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	turn, err := s.sessionService.SendMessage(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn.Response())
}

// restartSessionHandler handles POST /api/v1/sessions/:id/restart.
func (s *Server) restartSessionHandler(c *gin.Context) {
	sess, err := s.sessionService.RestartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Response())
}
