package model

import "time"

// OnboardingProgress tracks a member's checklist. Created lazily on first
// read, mutated only through explicit mark/dismiss/reset calls.
type OnboardingProgress struct {
	ProfileID          string
	NetworkID          string
	ProfileCompleted   bool
	ProfileCompletedAt *time.Time
	AvatarUploaded     bool
	AvatarUploadedAt   *time.Time
	FirstPostCreated   bool
	FirstPostCreatedAt *time.Time
	FirstEventJoined   bool
	FirstEventJoinedAt *time.Time
	FirstCommentPosted bool
	FirstCommentAt     *time.Time
	IsDismissed        bool
	IsCompleted        bool
	ProgressPercentage int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OnboardingItems is the fixed checklist, in display order.
var OnboardingItems = []string{
	"profile_completed",
	"avatar_uploaded",
	"first_post_created",
	"first_event_joined",
	"first_comment_posted",
}
