package mq

import "time"

// NotificationQueuedPayload announces freshly enqueued notification rows on
// the events exchange so the delivery worker can pick them up ahead of its
// schedule. Delivery itself stays in the worker.
type NotificationQueuedPayload struct {
	NetworkID     string    `json:"network_id"`
	Type          string    `json:"type"`
	Count         int       `json:"count"`
	RelatedItemID *string   `json:"related_item_id,omitempty"`
	QueuedAt      time.Time `json:"queued_at"`
	TraceID       string    `json:"trace_id,omitempty"`
}

// QueueClearedPayload announces an admin-initiated queue clear.
type QueueClearedPayload struct {
	NetworkID string    `json:"network_id"`
	Deleted   int64     `json:"deleted"`
	ClearedAt time.Time `json:"cleared_at"`
}
