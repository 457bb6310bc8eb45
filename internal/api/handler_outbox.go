package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"communityhub/pkg/outbox"
)

// OutboxHandler exposes replay of dead-lettered outbox events to admins.
type OutboxHandler struct {
	replay *outbox.ReplayService
	logger *zap.Logger
}

func NewOutboxHandler(replay *outbox.ReplayService, logger *zap.Logger) *OutboxHandler {
	return &OutboxHandler{replay: replay, logger: logger}
}

// ReplayFailed handles POST /admin/outbox/replay?limit=N.
func (h *OutboxHandler) ReplayFailed(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	replayed, err := h.replay.ReplayFailedEvents(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Outbox replay failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"replayed": replayed})
}

// ReplayOne handles POST /admin/outbox/replay/:id.
func (h *OutboxHandler) ReplayOne(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.replay.ReplayEvent(c.Request.Context(), id); err != nil {
		h.logger.Error("Outbox event replay failed", zap.Int64("event_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "replayed"})
}
