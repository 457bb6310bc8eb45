package model

import "time"

// HistoryFilter narrows a notification history query. Nil fields are
// ignored. Page is 0-indexed; offset is Page*Limit.
type HistoryFilter struct {
	Page        int
	Limit       int
	Type        *NotificationType
	RecipientID *string
	StartDate   *time.Time
	EndDate     *time.Time
	SentStatus  *SentStatus
}

// NotificationWithRecipient is a queue row joined with the recipient's
// display name and contact email, for the admin CRM table and CSV export.
type NotificationWithRecipient struct {
	NotificationQueueEntry
	RecipientName  string
	RecipientEmail string
}
