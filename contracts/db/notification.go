package db

import "time"

// NotificationQueueRow mirrors the notification_queue table as the delivery
// worker sees it. Field names are part of the interop contract; keep them
// bit-exact with the schema.
type NotificationQueueRow struct {
	ID             string     `json:"id"`
	RecipientID    string     `json:"recipient_id"`
	NetworkID      string     `json:"network_id"`
	Type           string     `json:"notification_type"`
	SubjectLine    string     `json:"subject_line"`
	ContentPreview string     `json:"content_preview"`
	RelatedItemID  *string    `json:"related_item_id"`
	Metadata       string     `json:"metadata"`
	IsSent         bool       `json:"is_sent"`
	SentAt         *time.Time `json:"sent_at"`
	ErrorMessage   *string    `json:"error_message"`
	CreatedAt      time.Time  `json:"created_at"`
}
