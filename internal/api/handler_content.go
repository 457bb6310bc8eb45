package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"communityhub/internal/model"
	"communityhub/internal/realtime"
	"communityhub/internal/repository"
	"communityhub/internal/service/notify"
	"communityhub/pkg/rbac"
	"communityhub/pkg/util"
)

// ContentHandler owns the domain writes that trigger notifications: news,
// events, portfolio posts, comments, direct messages, mentions. Every
// producer call here is best-effort; the primary write never fails
// because enqueueing did.
type ContentHandler struct {
	content  *repository.ContentRepository
	profiles *repository.ProfileRepository
	producer *notify.Producer
	notifier *realtime.Notifier
	logger   *zap.Logger
}

func NewContentHandler(
	content *repository.ContentRepository,
	profiles *repository.ProfileRepository,
	producer *notify.Producer,
	notifier *realtime.Notifier,
	logger *zap.Logger,
) *ContentHandler {
	return &ContentHandler{
		content:  content,
		profiles: profiles,
		producer: producer,
		notifier: notifier,
		logger:   logger,
	}
}

// resultErr adapts a producer Result for the best-effort helper.
func resultErr(res notify.Result) error {
	if !res.Success {
		return fmt.Errorf("producer reported failure: %s", res.Error)
	}
	return nil
}

// CreateNews handles POST /news.
func (h *ContentHandler) CreateNews(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := &model.NewsItem{
		ID:        uuid.NewString(),
		NetworkID: c.GetString("network_id"),
		AuthorID:  c.GetString("user_id"),
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := h.content.CreateNewsItem(c.Request.Context(), item); err != nil {
		h.logger.Error("Failed to create news item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create news item"})
		return
	}

	h.afterWrite(c.Request.Context(), item.NetworkID, "queue_news_notifications", func(ctx context.Context) error {
		return resultErr(h.producer.QueueNewsNotifications(ctx, item.ID))
	})

	c.JSON(http.StatusCreated, gin.H{"id": item.ID, "status": "created"})
}

// CreateEvent handles POST /events. Members propose; admins publish
// directly. Proposals notify the network admins instead of the members.
func (h *ContentHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Title    string    `json:"title" binding:"required"`
		Location string    `json:"location"`
		StartsAt time.Time `json:"starts_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	isAdmin := c.GetString("role") == rbac.RoleAdmin
	status := model.EventStatusPending
	if isAdmin {
		status = model.EventStatusApproved
	}

	event := &model.CommunityEvent{
		ID:        uuid.NewString(),
		NetworkID: c.GetString("network_id"),
		CreatedBy: c.GetString("user_id"),
		Title:     req.Title,
		Location:  req.Location,
		Status:    status,
		StartsAt:  req.StartsAt,
	}
	if err := h.content.CreateEvent(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	if isAdmin {
		h.afterWrite(c.Request.Context(), event.NetworkID, "queue_event_notifications", func(ctx context.Context) error {
			return resultErr(h.producer.QueueEventNotifications(ctx, event.ID))
		})
	} else {
		creatorName := h.displayName(c.Request.Context(), event.CreatedBy)
		h.afterWrite(c.Request.Context(), event.NetworkID, "queue_event_proposal_notifications", func(ctx context.Context) error {
			return resultErr(h.producer.QueueEventProposalNotificationForAdmins(ctx, notify.EventProposalInput{
				NetworkID:    event.NetworkID,
				EventID:      event.ID,
				ProposerID:   event.CreatedBy,
				ProposerName: creatorName,
				EventTitle:   event.Title,
			}))
		})
	}

	c.JSON(http.StatusCreated, gin.H{"id": event.ID, "status": event.Status})
}

// UpdateEventStatus handles PATCH /events/:id/status (admin decision on a
// proposal).
func (h *ContentHandler) UpdateEventStatus(c *gin.Context) {
	if c.GetString("role") != rbac.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can review event proposals"})
		return
	}

	var req struct {
		Status          string `json:"status" binding:"required"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Status != model.EventStatusApproved && req.Status != model.EventStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	eventID := c.Param("id")
	event, err := h.content.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	if err := h.content.UpdateEventStatus(c.Request.Context(), eventID, req.Status); err != nil {
		h.logger.Error("Failed to update event status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event status"})
		return
	}

	h.afterWrite(c.Request.Context(), event.NetworkID, "queue_event_status_notification", func(ctx context.Context) error {
		return resultErr(h.producer.QueueEventStatusNotification(ctx, notify.EventStatusInput{
			EventID:         event.ID,
			CreatorID:       event.CreatedBy,
			EventTitle:      event.Title,
			Status:          req.Status,
			RejectionReason: req.RejectionReason,
		}))
	})

	c.JSON(http.StatusOK, gin.H{"id": event.ID, "status": req.Status})
}

// CreatePortfolioItem handles POST /portfolio.
func (h *ContentHandler) CreatePortfolioItem(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post := &model.PortfolioItem{
		ID:          uuid.NewString(),
		NetworkID:   c.GetString("network_id"),
		AuthorID:    c.GetString("user_id"),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.content.CreatePortfolioItem(c.Request.Context(), post); err != nil {
		h.logger.Error("Failed to create portfolio item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	h.afterWrite(c.Request.Context(), post.NetworkID, "queue_portfolio_notifications", func(ctx context.Context) error {
		return resultErr(h.producer.QueuePortfolioNotifications(ctx, post.ID))
	})

	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "status": "created"})
}

// CreateComment handles POST /comments. The handler resolves the
// commented item's author and, for replies, the parent comment's author
// before handing off to the producer.
func (h *ContentHandler) CreateComment(c *gin.Context) {
	var req struct {
		ItemType        string  `json:"item_type" binding:"required"`
		ItemID          string  `json:"item_id" binding:"required"`
		Content         string  `json:"content" binding:"required"`
		ParentCommentID *string `json:"parent_comment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	commenterID := c.GetString("user_id")
	comment := &model.Comment{
		ID:              uuid.NewString(),
		ItemType:        req.ItemType,
		ItemID:          req.ItemID,
		AuthorID:        commenterID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := h.content.CreateComment(c.Request.Context(), comment); err != nil {
		h.logger.Error("Failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	input := notify.CommentNotificationInput{
		ItemType:      req.ItemType,
		ItemID:        req.ItemID,
		CommenterID:   commenterID,
		CommenterName: h.displayName(c.Request.Context(), commenterID),
		Content:       req.Content,
		IsReply:       req.ParentCommentID != nil,
	}
	input.OriginalPosterID, input.PostTitle = h.resolveItemAuthor(c.Request.Context(), req.ItemType, req.ItemID)
	if req.ParentCommentID != nil {
		if parent, err := h.content.GetComment(c.Request.Context(), *req.ParentCommentID); err == nil {
			input.ParentCommentAuthorID = parent.AuthorID
		}
	}

	networkID := c.GetString("network_id")
	h.afterWrite(c.Request.Context(), networkID, "queue_comment_notification", func(ctx context.Context) error {
		return resultErr(h.producer.QueueCommentNotification(ctx, input))
	})

	c.JSON(http.StatusCreated, gin.H{"id": comment.ID, "status": "created"})
}

// CreateDirectMessage handles POST /messages.
func (h *ContentHandler) CreateDirectMessage(c *gin.Context) {
	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg := &model.DirectMessage{
		ID:          uuid.NewString(),
		NetworkID:   c.GetString("network_id"),
		SenderID:    c.GetString("user_id"),
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}
	if err := h.content.CreateDirectMessage(c.Request.Context(), msg); err != nil {
		h.logger.Error("Failed to create direct message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	util.BestEffort(c.Request.Context(), h.logger, "queue_direct_message_notification", func(ctx context.Context) error {
		return resultErr(h.producer.QueueDirectMessageNotification(ctx, msg.RecipientID, msg.SenderID, msg.Content, msg.ID))
	})

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "status": "sent"})
}

// CreateMention handles POST /mentions, fired when the composer detects an
// @-mention in a message.
func (h *ContentHandler) CreateMention(c *gin.Context) {
	var req struct {
		MentionedUserID string `json:"mentioned_user_id" binding:"required"`
		MessageID       string `json:"message_id" binding:"required"`
		Content         string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	networkID := c.GetString("network_id")
	mentionerName := h.displayName(c.Request.Context(), c.GetString("user_id"))

	util.BestEffort(c.Request.Context(), h.logger, "queue_mention_notification", func(ctx context.Context) error {
		return resultErr(h.producer.QueueMentionNotification(ctx, req.MentionedUserID, networkID, mentionerName, req.Content, req.MessageID))
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// afterWrite runs the producer best-effort and pushes an activity refresh.
func (h *ContentHandler) afterWrite(ctx context.Context, networkID, task string, fn func(ctx context.Context) error) {
	util.BestEffort(ctx, h.logger, task, fn)
	h.notifier.PublishRefresh(ctx, networkID, realtime.TopicActivity)
}

func (h *ContentHandler) displayName(ctx context.Context, profileID string) string {
	profile, err := h.profiles.FindByID(ctx, profileID)
	if err != nil {
		return "A member"
	}
	if profile.FullName == "" {
		return "A member"
	}
	return profile.FullName
}

// resolveItemAuthor finds who authored the commented item, and its title.
func (h *ContentHandler) resolveItemAuthor(ctx context.Context, itemType, itemID string) (string, string) {
	switch itemType {
	case "news":
		if item, err := h.content.GetNewsItem(ctx, itemID); err == nil {
			return item.AuthorID, item.Title
		}
	case "event":
		if item, err := h.content.GetEvent(ctx, itemID); err == nil {
			return item.CreatedBy, item.Title
		}
	case "post":
		if item, err := h.content.GetPortfolioItem(ctx, itemID); err == nil {
			return item.AuthorID, item.Title
		}
	}
	return "", ""
}
