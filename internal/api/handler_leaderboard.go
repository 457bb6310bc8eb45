package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"communityhub/internal/service/engagement"
)

type LeaderboardHandler struct {
	service *engagement.Service
	logger  *zap.Logger
}

func NewLeaderboardHandler(service *engagement.Service, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, logger: logger}
}

// Leaderboard handles GET /leaderboard.
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	board, err := h.service.Leaderboard(c.Request.Context(), c.GetString("network_id"))
	if err != nil {
		h.logger.Error("Failed to build leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// MyRank handles GET /leaderboard/me for the motivational banner.
func (h *LeaderboardHandler) MyRank(c *gin.Context) {
	entry, err := h.service.MemberRank(c.Request.Context(), c.GetString("network_id"), c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to resolve member rank", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve rank"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
