package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every handler group the router mounts.
type Handlers struct {
	Content     *ContentHandler
	CRM         *CRMHandler
	Leaderboard *LeaderboardHandler
	Onboarding  *OnboardingHandler
	Outbox      *OutboxHandler
}

// NewRouter wires the full HTTP surface. All /api/v1 routes sit behind
// bearer auth; the admin subgroup additionally checks role permissions.
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(jwtSecret))
	{
		v1.POST("/news", h.Content.CreateNews)
		v1.POST("/events", h.Content.CreateEvent)
		v1.PATCH("/events/:id/status", h.Content.UpdateEventStatus)
		v1.POST("/portfolio", h.Content.CreatePortfolioItem)
		v1.POST("/comments", h.Content.CreateComment)
		v1.POST("/messages", h.Content.CreateDirectMessage)
		v1.POST("/mentions", h.Content.CreateMention)

		v1.GET("/leaderboard", h.Leaderboard.Leaderboard)
		v1.GET("/leaderboard/me", h.Leaderboard.MyRank)

		v1.GET("/onboarding", h.Onboarding.Get)
		v1.POST("/onboarding/items/:item/complete", h.Onboarding.MarkComplete)
		v1.POST("/onboarding/dismiss", h.Onboarding.Dismiss)
		v1.POST("/onboarding/reset", h.Onboarding.Reset)

		admin := v1.Group("/admin")
		{
			admin.GET("/notifications", RequirePermission("notifications:read"), h.CRM.History)
			admin.GET("/notifications/stats", RequirePermission("notifications:read"), h.CRM.Stats)
			admin.GET("/notifications/export", RequirePermission("notifications:export"), h.CRM.Export)
			admin.POST("/notifications/process-test", RequirePermission("notifications:process_test"), h.CRM.ProcessTest)
			admin.DELETE("/notifications", RequirePermission("notifications:clear"), h.CRM.Clear)

			admin.POST("/outbox/replay", RequirePermission("outbox:replay"), h.Outbox.ReplayFailed)
			admin.POST("/outbox/replay/:id", RequirePermission("outbox:replay"), h.Outbox.ReplayOne)
		}
	}

	return r
}
