package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"communityhub/internal/model"
	"communityhub/internal/service/crm"
)

// CRMHandler is the admin surface over the notification queue: history,
// stats, CSV export, test sends and queue clears.
type CRMHandler struct {
	service *crm.Service
	logger  *zap.Logger
}

func NewCRMHandler(service *crm.Service, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{service: service, logger: logger}
}

// History handles GET /admin/notifications. The reader never errors; a
// failed fetch renders the empty-page shape with error set so the table
// shows an empty state.
func (h *CRMHandler) History(c *gin.Context) {
	filter := parseHistoryFilter(c)
	page := h.service.FetchHistory(c.Request.Context(), c.GetString("network_id"), filter)
	c.JSON(http.StatusOK, page)
}

// Stats handles GET /admin/notifications/stats.
func (h *CRMHandler) Stats(c *gin.Context) {
	stats := h.service.FetchStats(c.Request.Context(), c.GetString("network_id"))
	c.JSON(http.StatusOK, stats)
}

// Export handles GET /admin/notifications/export and streams the CSV.
func (h *CRMHandler) Export(c *gin.Context) {
	data, filename, err := h.service.ExportCSV(c.Request.Context(), c.GetString("network_id"), parseHistoryFilter(c))
	if err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ProcessTest handles POST /admin/notifications/process-test: nudge the
// delivery worker for an immediate pass.
func (h *CRMHandler) ProcessTest(c *gin.Context) {
	result, err := h.service.ProcessTestEmails(c.Request.Context())
	if err != nil {
		h.logger.Error("Test email processing failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Clear handles DELETE /admin/notifications.
func (h *CRMHandler) Clear(c *gin.Context) {
	deleted, err := h.service.ClearQueue(c.Request.Context(), c.GetString("network_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear queue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func parseHistoryFilter(c *gin.Context) model.HistoryFilter {
	var f model.HistoryFilter

	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		f.Limit = v
	}
	if v := c.Query("type"); v != "" {
		t := model.NotificationType(v)
		if t.Valid() {
			f.Type = &t
		}
	}
	if v := c.Query("recipient_id"); v != "" {
		f.RecipientID = &v
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1).Add(-time.Second)
			f.EndDate = &end
		}
	}
	if v := c.Query("status"); v != "" {
		switch model.SentStatus(v) {
		case model.StatusSent, model.StatusPending, model.StatusFailed:
			status := model.SentStatus(v)
			f.SentStatus = &status
		}
	}

	return f
}
