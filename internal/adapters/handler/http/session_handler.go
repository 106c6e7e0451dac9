package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

// EventEmitter receives visibility changes reported by clients.
type EventEmitter interface {
	Emit(event domain.VisibilityEvent) int
}

type SessionHandler struct {
	events EventEmitter
}

func NewSessionHandler(events EventEmitter) *SessionHandler {
	return &SessionHandler{events: events}
}

type visibilityRequest struct {
	Event string `json:"event" binding:"required"`
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	session := router.Group("/session")
	{
		session.POST("/visibility", h.Visibility)
	}
}

func (h *SessionHandler) Visibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, ok := domain.ParseVisibilityEvent(strings.ToLower(strings.TrimSpace(req.Event)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event must be visible, hidden or focus"})
		return
	}

	h.events.Emit(event)
	c.Status(http.StatusNoContent)
}
