package notify

import "encoding/json"

// Per-type metadata payloads. The queue's metadata column is a
// JSON-encoded string; these structs are the single source of truth for
// its shape per notification type, shared with the delivery worker.

type CommentMetadata struct {
	CommenterName string `json:"commenterName"`
	IsReply       bool   `json:"isReply"`
	PostTitle     string `json:"postTitle,omitempty"`
}

type MentionMetadata struct {
	MentionerName string `json:"mentionerName"`
}

type MessageMetadata struct {
	SenderID string `json:"senderId"`
}

type ProposalMetadata struct {
	ProposerName string `json:"proposerName"`
	EventTitle   string `json:"eventTitle,omitempty"`
}

type StatusMetadata struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// encodeMetadata serializes a metadata payload for the queue row. Never
// fails the producer path: a payload that cannot be marshalled degrades
// to the empty object.
func encodeMetadata(v any) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
