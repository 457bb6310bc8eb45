package model

import "time"

// EngagementStats is the per-member activity counter row maintained by
// database triggers. Read-only here; consumed for leaderboard scoring.
type EngagementStats struct {
	UserID            string
	NetworkID         string
	PostsCount        int
	EventsAttended    int
	MessagesSent      int
	WikiContributions int
	PollsParticipated int
	FilesShared       int
	LastActive        time.Time
}
