package model

import "time"

// NotificationType is the closed set of notification kinds the queue carries.
type NotificationType string

const (
	TypeNews          NotificationType = "news"
	TypeEvent         NotificationType = "event"
	TypeMention       NotificationType = "mention"
	TypeDirectMessage NotificationType = "direct_message"
	TypePost          NotificationType = "post"
	TypeEventProposal NotificationType = "event_proposal"
	TypeEventStatus   NotificationType = "event_status"
	TypeEventReminder NotificationType = "event_reminder"
	TypeComment       NotificationType = "comment"
	TypeCommentReply  NotificationType = "comment_reply"
	TypeCustom        NotificationType = "custom"
)

// AllNotificationTypes lists every type, in the order stats histograms report them.
var AllNotificationTypes = []NotificationType{
	TypeNews,
	TypeEvent,
	TypeMention,
	TypeDirectMessage,
	TypePost,
	TypeEventProposal,
	TypeEventStatus,
	TypeEventReminder,
	TypeComment,
	TypeCommentReply,
	TypeCustom,
}

func (t NotificationType) Valid() bool {
	for _, known := range AllNotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NotificationQueueEntry is one row of notification_queue: "notify this
// recipient about this event", awaiting pickup by the delivery worker.
// The worker owns is_sent/sent_at/error_message after creation; this
// service only ever inserts, reads and (admin-initiated) deletes rows.
type NotificationQueueEntry struct {
	ID             string
	RecipientID    string
	NetworkID      string
	Type           NotificationType
	SubjectLine    string
	ContentPreview string
	RelatedItemID  *string
	Metadata       string // JSON-encoded string, see service/notify metadata types
	IsSent         bool
	SentAt         *time.Time
	ErrorMessage   *string
	CreatedAt      time.Time
}

// SentStatus is the derived three-way partition over is_sent/error_message.
type SentStatus string

const (
	StatusSent    SentStatus = "sent"
	StatusPending SentStatus = "pending"
	StatusFailed  SentStatus = "failed"
)

// Status buckets a row. The worker sets is_sent and error_message mutually
// exclusively, so exactly one bucket holds for any row.
func (e *NotificationQueueEntry) Status() SentStatus {
	if e.ErrorMessage != nil && *e.ErrorMessage != "" {
		return StatusFailed
	}
	if e.IsSent {
		return StatusSent
	}
	return StatusPending
}
