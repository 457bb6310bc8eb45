package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"communityhub/internal/model"
	"communityhub/pkg/metrics"
)

// QueueStore persists queue rows. One bulk insert (or zero) per producer call.
type QueueStore interface {
	InsertBatch(ctx context.Context, entries []*model.NotificationQueueEntry) error
}

// ProfileStore reads recipient preferences. Read-only from here.
type ProfileStore interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	EligibleRecipients(ctx context.Context, networkID string, pref model.PreferenceField, excludeID string) ([]model.Profile, error)
	NetworkAdmins(ctx context.Context, networkID string) ([]model.Profile, error)
}

// ContentStore resolves the entity a notification refers to.
type ContentStore interface {
	GetNewsItem(ctx context.Context, id string) (*model.NewsItem, error)
	GetEvent(ctx context.Context, id string) (*model.CommunityEvent, error)
	GetPortfolioItem(ctx context.Context, id string) (*model.PortfolioItem, error)
}

// Producer translates one domain event into zero or more durable queue
// rows, respecting recipient opt-outs. It never blocks or fails the
// originating write: call sites run it through util.BestEffort.
//
// There is no transactional guarantee across the preference read and the
// insert. A preference flipped between the two still gets this pass's
// notification; that race is accepted. Duplicate suppression is the
// caller's job (invoke once per logical event), not the data layer's.
type Producer struct {
	queue    QueueStore
	profiles ProfileStore
	content  ContentStore
	logger   *zap.Logger
	newID    func() string
}

func NewProducer(queue QueueStore, profiles ProfileStore, content ContentStore, logger *zap.Logger) *Producer {
	return &Producer{
		queue:    queue,
		profiles: profiles,
		content:  content,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// QueueNewsNotifications fans a news post out to every member of its
// network who opted into news email, excluding the author.
func (p *Producer) QueueNewsNotifications(ctx context.Context, newsID string) Result {
	item, err := p.content.GetNewsItem(ctx, newsID)
	if err != nil {
		return p.fail(model.TypeNews, reasonLookup, err)
	}

	return p.fanOut(ctx, fanOutParams{
		Type:          model.TypeNews,
		NetworkID:     item.NetworkID,
		ExcludeID:     item.AuthorID,
		RelatedItemID: item.ID,
		SubjectLine:   fmt.Sprintf("New news post: %s", item.Title),
	})
}

// QueueEventNotifications fans an event out to members who opted into
// event email, excluding its creator.
func (p *Producer) QueueEventNotifications(ctx context.Context, eventID string) Result {
	event, err := p.content.GetEvent(ctx, eventID)
	if err != nil {
		return p.fail(model.TypeEvent, reasonLookup, err)
	}

	return p.fanOut(ctx, fanOutParams{
		Type:          model.TypeEvent,
		NetworkID:     event.NetworkID,
		ExcludeID:     event.CreatedBy,
		RelatedItemID: event.ID,
		SubjectLine:   fmt.Sprintf("New event: %s", event.Title),
	})
}

// QueuePortfolioNotifications fans a portfolio post out like news (posts
// ride the news opt-in flag).
func (p *Producer) QueuePortfolioNotifications(ctx context.Context, postID string) Result {
	post, err := p.content.GetPortfolioItem(ctx, postID)
	if err != nil {
		return p.fail(model.TypePost, reasonLookup, err)
	}

	return p.fanOut(ctx, fanOutParams{
		Type:          model.TypePost,
		NetworkID:     post.NetworkID,
		ExcludeID:     post.AuthorID,
		RelatedItemID: post.ID,
		SubjectLine:   fmt.Sprintf("New post: %s", post.Title),
	})
}

type fanOutParams struct {
	Type          model.NotificationType
	NetworkID     string
	ExcludeID     string
	RelatedItemID string
	SubjectLine   string
	Metadata      string
}

// fanOut is the shared bulk path: select eligible recipients, build one
// row each, single bulk insert. Content previews stay empty here; the
// delivery worker resolves full content through related_item_id instead
// of the queue carrying copies that can go stale.
func (p *Producer) fanOut(ctx context.Context, params fanOutParams) Result {
	pref, ok := prefFieldFor[params.Type]
	if !ok {
		return p.fail(params.Type, reasonLookup, fmt.Errorf("no preference field for type %s", params.Type))
	}

	recipients, err := p.profiles.EligibleRecipients(ctx, params.NetworkID, pref, params.ExcludeID)
	if err != nil {
		return p.fail(params.Type, reasonLookup, err)
	}

	if len(recipients) == 0 {
		return Result{Success: true, Count: 0, Message: "no eligible recipients"}
	}

	metadata := params.Metadata
	if metadata == "" {
		metadata = encodeMetadata(nil)
	}

	relatedID := params.RelatedItemID
	entries := make([]*model.NotificationQueueEntry, 0, len(recipients))
	for _, recipient := range recipients {
		entries = append(entries, &model.NotificationQueueEntry{
			ID:            p.newID(),
			RecipientID:   recipient.ID,
			NetworkID:     params.NetworkID,
			Type:          params.Type,
			SubjectLine:   params.SubjectLine,
			RelatedItemID: &relatedID,
			Metadata:      metadata,
		})
	}

	if err := p.queue.InsertBatch(ctx, entries); err != nil {
		return p.fail(params.Type, reasonInsert, err)
	}

	return Result{Success: true, Count: len(entries)}
}

// CommentNotificationInput carries everything the comment path needs; the
// caller already holds it all from the comment write.
type CommentNotificationInput struct {
	ItemType              string
	ItemID                string
	CommenterID           string
	CommenterName         string
	Content               string
	OriginalPosterID      string
	ParentCommentAuthorID string
	PostTitle             string
	IsReply               bool
}

// QueueCommentNotification produces up to two rows: one to the original
// poster (comment) and, for replies, one to the parent-comment author
// (comment_reply). Each is independently gated on that recipient's news
// opt-in and suppressed when the candidate is the commenter. A poster who
// is also the reply parent (and not the commenter) gets two rows; that is
// accepted behavior, not deduplicated.
func (p *Producer) QueueCommentNotification(ctx context.Context, input CommentNotificationInput) Result {
	entries := []*model.NotificationQueueEntry{}
	itemID := input.ItemID

	if input.OriginalPosterID != "" && input.OriginalPosterID != input.CommenterID {
		poster, err := p.profiles.FindByID(ctx, input.OriginalPosterID)
		if err != nil {
			return p.fail(model.TypeComment, reasonLookup, err)
		}
		if poster.EmailNotificationsEnabled && poster.NotifyOnNews {
			entries = append(entries, &model.NotificationQueueEntry{
				ID:             p.newID(),
				RecipientID:    poster.ID,
				NetworkID:      poster.NetworkID,
				Type:           model.TypeComment,
				SubjectLine:    fmt.Sprintf("%s commented on %s", input.CommenterName, input.PostTitle),
				ContentPreview: truncate(input.Content, previewLimit),
				RelatedItemID:  &itemID,
				Metadata: encodeMetadata(CommentMetadata{
					CommenterName: input.CommenterName,
					IsReply:       input.IsReply,
					PostTitle:     input.PostTitle,
				}),
			})
		}
	}

	if input.IsReply && input.ParentCommentAuthorID != "" && input.ParentCommentAuthorID != input.CommenterID {
		parent, err := p.profiles.FindByID(ctx, input.ParentCommentAuthorID)
		if err != nil {
			return p.fail(model.TypeCommentReply, reasonLookup, err)
		}
		if parent.EmailNotificationsEnabled && parent.NotifyOnNews {
			entries = append(entries, &model.NotificationQueueEntry{
				ID:             p.newID(),
				RecipientID:    parent.ID,
				NetworkID:      parent.NetworkID,
				Type:           model.TypeCommentReply,
				SubjectLine:    fmt.Sprintf("%s replied to your comment", input.CommenterName),
				ContentPreview: truncate(input.Content, previewLimit),
				RelatedItemID:  &itemID,
				Metadata: encodeMetadata(CommentMetadata{
					CommenterName: input.CommenterName,
					IsReply:       true,
					PostTitle:     input.PostTitle,
				}),
			})
		}
	}

	if len(entries) == 0 {
		return Result{Success: true, Count: 0, Message: "no eligible recipients"}
	}

	if err := p.queue.InsertBatch(ctx, entries); err != nil {
		return p.fail(model.TypeComment, reasonInsert, err)
	}

	return Result{Success: true, Count: len(entries)}
}

// QueueMentionNotification notifies one mentioned member. Requires the
// mention opt-in and a configured contact email; a missing email is a
// producer failure surfaced to the caller, never a panic or error value.
func (p *Producer) QueueMentionNotification(ctx context.Context, mentionedUserID, networkID, mentionerName, messageContent, messageID string) Result {
	profile, err := p.profiles.FindByID(ctx, mentionedUserID)
	if err != nil {
		return p.fail(model.TypeMention, reasonLookup, err)
	}

	if !profile.EmailNotificationsEnabled || !profile.NotifyOnMentions {
		return Result{Success: true, Count: 0, Message: "recipient opted out of mention notifications"}
	}

	if profile.ContactEmail == "" {
		metrics.IncrementProduceFailure(string(model.TypeMention), reasonContactChannel)
		p.logger.Warn("Mention notification skipped, no contact email",
			zap.String("recipient_id", mentionedUserID),
		)
		return Result{Success: false, Error: "mentioned user has no contact email configured"}
	}

	entry := &model.NotificationQueueEntry{
		ID:             p.newID(),
		RecipientID:    profile.ID,
		NetworkID:      networkID,
		Type:           model.TypeMention,
		SubjectLine:    fmt.Sprintf("%s mentioned you", mentionerName),
		ContentPreview: truncate(messageContent, previewLimit),
		RelatedItemID:  &messageID,
		Metadata:       encodeMetadata(MentionMetadata{MentionerName: mentionerName}),
	}

	if err := p.queue.InsertBatch(ctx, []*model.NotificationQueueEntry{entry}); err != nil {
		return p.fail(model.TypeMention, reasonInsert, err)
	}

	return Result{Success: true, Count: 1}
}

// QueueDirectMessageNotification notifies the recipient of a DM. Messaging
// yourself is a silent no-op, not an error.
func (p *Producer) QueueDirectMessageNotification(ctx context.Context, recipientID, senderID, messageContent, messageID string) Result {
	if recipientID == senderID {
		return Result{Success: true, Count: 0, Message: "self messages are not notified"}
	}

	profile, err := p.profiles.FindByID(ctx, recipientID)
	if err != nil {
		return p.fail(model.TypeDirectMessage, reasonLookup, err)
	}

	if !profile.EmailNotificationsEnabled || !profile.NotifyOnDirectMessages {
		return Result{Success: true, Count: 0, Message: "recipient opted out of direct message notifications"}
	}

	if profile.ContactEmail == "" {
		metrics.IncrementProduceFailure(string(model.TypeDirectMessage), reasonContactChannel)
		p.logger.Warn("Direct message notification skipped, no contact email",
			zap.String("recipient_id", recipientID),
		)
		return Result{Success: false, Error: "message recipient has no contact email configured"}
	}

	entry := &model.NotificationQueueEntry{
		ID:             p.newID(),
		RecipientID:    profile.ID,
		NetworkID:      profile.NetworkID,
		Type:           model.TypeDirectMessage,
		SubjectLine:    "You have a new direct message",
		ContentPreview: truncate(messageContent, previewLimit),
		RelatedItemID:  &messageID,
		Metadata:       encodeMetadata(MessageMetadata{SenderID: senderID}),
	}

	if err := p.queue.InsertBatch(ctx, []*model.NotificationQueueEntry{entry}); err != nil {
		return p.fail(model.TypeDirectMessage, reasonInsert, err)
	}

	return Result{Success: true, Count: 1}
}

// EventProposalInput describes a member's proposed event awaiting review.
type EventProposalInput struct {
	NetworkID    string
	EventID      string
	ProposerID   string
	ProposerName string
	EventTitle   string
}

// QueueEventProposalNotificationForAdmins fans a proposal out to every
// network admin (minus the proposer, should an admin propose).
func (p *Producer) QueueEventProposalNotificationForAdmins(ctx context.Context, input EventProposalInput) Result {
	admins, err := p.profiles.NetworkAdmins(ctx, input.NetworkID)
	if err != nil {
		return p.fail(model.TypeEventProposal, reasonLookup, err)
	}

	eventID := input.EventID
	entries := []*model.NotificationQueueEntry{}
	for _, admin := range admins {
		if admin.ID == input.ProposerID || !admin.EmailNotificationsEnabled {
			continue
		}
		entries = append(entries, &model.NotificationQueueEntry{
			ID:            p.newID(),
			RecipientID:   admin.ID,
			NetworkID:     input.NetworkID,
			Type:          model.TypeEventProposal,
			SubjectLine:   fmt.Sprintf("Event proposal: %s", input.EventTitle),
			RelatedItemID: &eventID,
			Metadata: encodeMetadata(ProposalMetadata{
				ProposerName: input.ProposerName,
				EventTitle:   input.EventTitle,
			}),
		})
	}

	if len(entries) == 0 {
		return Result{Success: true, Count: 0, Message: "no eligible recipients"}
	}

	if err := p.queue.InsertBatch(ctx, entries); err != nil {
		return p.fail(model.TypeEventProposal, reasonInsert, err)
	}

	return Result{Success: true, Count: len(entries)}
}

// EventStatusInput describes an approval decision on a proposed event.
type EventStatusInput struct {
	EventID         string
	CreatorID       string
	EventTitle      string
	Status          string // approved or rejected
	RejectionReason string
}

// QueueEventStatusNotification tells the event creator their proposal was
// approved or rejected. The rejection reason is folded into the preview.
func (p *Producer) QueueEventStatusNotification(ctx context.Context, input EventStatusInput) Result {
	profile, err := p.profiles.FindByID(ctx, input.CreatorID)
	if err != nil {
		return p.fail(model.TypeEventStatus, reasonLookup, err)
	}

	if !profile.EmailNotificationsEnabled || !profile.NotifyOnEvents {
		return Result{Success: true, Count: 0, Message: "recipient opted out of event notifications"}
	}

	preview := fmt.Sprintf("Your event %q was %s", input.EventTitle, input.Status)
	if input.Status == model.EventStatusRejected && input.RejectionReason != "" {
		preview = fmt.Sprintf("%s: %s", preview, input.RejectionReason)
	}

	eventID := input.EventID
	entry := &model.NotificationQueueEntry{
		ID:             p.newID(),
		RecipientID:    profile.ID,
		NetworkID:      profile.NetworkID,
		Type:           model.TypeEventStatus,
		SubjectLine:    fmt.Sprintf("Event %s: %s", input.Status, input.EventTitle),
		ContentPreview: preview,
		RelatedItemID:  &eventID,
		Metadata: encodeMetadata(StatusMetadata{
			Status:          input.Status,
			RejectionReason: input.RejectionReason,
		}),
	}

	if err := p.queue.InsertBatch(ctx, []*model.NotificationQueueEntry{entry}); err != nil {
		return p.fail(model.TypeEventStatus, reasonInsert, err)
	}

	return Result{Success: true, Count: 1}
}

func (p *Producer) fail(t model.NotificationType, reason string, err error) Result {
	metrics.IncrementProduceFailure(string(t), reason)
	p.logger.Error("Notification producer call failed",
		zap.String("type", string(t)),
		zap.String("reason", reason),
		zap.Error(err),
	)
	return Result{Success: false, Error: err.Error()}
}
