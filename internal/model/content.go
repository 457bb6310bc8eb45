package model

import "time"

// Event approval states.
const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

type NewsItem struct {
	ID        string
	NetworkID string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
}

type CommunityEvent struct {
	ID        string
	NetworkID string
	CreatedBy string
	Title     string
	Location  string
	Status    string
	StartsAt  time.Time
	CreatedAt time.Time
}

type PortfolioItem struct {
	ID          string
	NetworkID   string
	AuthorID    string
	Title       string
	Description string
	CreatedAt   time.Time
}

type Comment struct {
	ID              string
	ItemType        string // news, event, post
	ItemID          string
	AuthorID        string
	ParentCommentID *string
	Content         string
	CreatedAt       time.Time
}

type DirectMessage struct {
	ID          string
	NetworkID   string
	SenderID    string
	RecipientID string
	Content     string
	CreatedAt   time.Time
}
