package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"communityhub/internal/service/onboarding"
)

type OnboardingHandler struct {
	service *onboarding.Service
	logger  *zap.Logger
}

func NewOnboardingHandler(service *onboarding.Service, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{service: service, logger: logger}
}

// Get handles GET /onboarding (creates the row on first read).
func (h *OnboardingHandler) Get(c *gin.Context) {
	progress, err := h.service.Get(c.Request.Context(), c.GetString("user_id"), c.GetString("network_id"))
	if err != nil {
		h.logger.Error("Failed to read onboarding progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read onboarding progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// MarkComplete handles POST /onboarding/items/:item/complete.
func (h *OnboardingHandler) MarkComplete(c *gin.Context) {
	progress, err := h.service.MarkComplete(c.Request.Context(), c.GetString("user_id"), c.GetString("network_id"), c.Param("item"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Dismiss handles POST /onboarding/dismiss.
func (h *OnboardingHandler) Dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Request.Context(), c.GetString("user_id"), c.GetString("network_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dismiss onboarding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

// Reset handles POST /onboarding/reset.
func (h *OnboardingHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), c.GetString("user_id"), c.GetString("network_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset onboarding"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
