package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

type TrackerHandler struct {
	registry *services.Registry
}

func NewTrackerHandler(registry *services.Registry) *TrackerHandler {
	return &TrackerHandler{
		registry: registry,
	}
}

// answerValue accepts either a JSON string or a JSON number.
type answerValue string

func (v *answerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = answerValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = answerValue(n.String())
	return nil
}

type promptRequest struct {
	Value     answerValue `json:"value"`
	Cancelled bool        `json:"cancelled"`
}

func (r promptRequest) prompter() domain.Prompter {
	return domain.Answer{Value: string(r.Value), Cancelled: r.Cancelled}
}

type recordRequest struct {
	Button    *int        `json:"button" binding:"required"`
	Value     answerValue `json:"value"`
	Cancelled bool        `json:"cancelled"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	trackers := router.Group("/trackers")
	{
		trackers.GET("", h.List)
		trackers.GET("/:kind", h.Get)
		trackers.POST("/:kind/goal", h.SetGoal)
		trackers.POST("/:kind/record", h.Record)
		trackers.POST("/:kind/reset", h.Reset)
		trackers.POST("/:kind/completed/remove", h.RemoveCompleted)
		trackers.PUT("/:kind/custom-button", h.RenameCustomButton)
	}
}

func (h *TrackerHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Descriptors())
}

func (h *TrackerHandler) Get(c *gin.Context) {
	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.Snapshot(ctx)
	})
}

func (h *TrackerHandler) SetGoal(c *gin.Context) {
	var req promptRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.SetGoal(ctx, req.prompter())
	})
}

func (h *TrackerHandler) Record(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := domain.Answer{Value: string(req.Value), Cancelled: req.Cancelled}

	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.Record(ctx, *req.Button, p)
	})
}

func (h *TrackerHandler) Reset(c *gin.Context) {
	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.Reset(ctx)
	})
}

func (h *TrackerHandler) RemoveCompleted(c *gin.Context) {
	var req promptRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.RemoveCompleted(ctx, req.prompter())
	})
}

func (h *TrackerHandler) RenameCustomButton(c *gin.Context) {
	var req promptRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.withTracker(c, func(ctx context.Context, t *services.Tracker) (services.Snapshot, error) {
		return t.RenameCustomButton(ctx, req.prompter())
	})
}

func (h *TrackerHandler) withTracker(c *gin.Context, fn func(ctx context.Context, t *services.Tracker) (services.Snapshot, error)) {
	tracker, err := h.registry.Get(c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return
	}

	snap, err := fn(c.Request.Context(), tracker)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// bindOptionalJSON treats an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTrackerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tracker not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingGoal),
		errors.Is(err, domain.ErrPlaceholderAction),
		errors.Is(err, domain.ErrNothingToRemove):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNameCollision):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
