package crm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"communityhub/internal/model"
)

// Stats is the aggregate view of a network's queue. Computed in-process
// from a full scan; the queue is small enough per network that pushing
// the bucketing into SQL has not been worth it.
type Stats struct {
	Total     int                              `json:"total"`
	Sent      int                              `json:"sent"`
	Pending   int                              `json:"pending"`
	Failed    int                              `json:"failed"`
	ByType    map[model.NotificationType]int   `json:"byType"`
	Today     int                              `json:"today"`
	ThisWeek  int                              `json:"thisWeek"`
	ThisMonth int                              `json:"thisMonth"`
	Error     string                           `json:"error,omitempty"`
}

// FetchStats scans the network's queue and buckets rows by status, type
// and recency against local start-of-day/week/month boundaries.
func (s *Service) FetchStats(ctx context.Context, networkID string) Stats {
	stats := Stats{ByType: map[model.NotificationType]int{}}
	for _, t := range model.AllNotificationTypes {
		stats.ByType[t] = 0
	}

	entries, err := s.store.AllForStats(ctx, networkID)
	if err != nil {
		s.logger.Error("Failed to fetch notification stats",
			zap.String("network_id", networkID),
			zap.Error(err),
		)
		stats.Error = err.Error()
		return stats
	}

	now := s.now()
	dayStart := startOfDay(now)
	weekStart := startOfWeek(now)
	monthStart := startOfMonth(now)

	for _, e := range entries {
		stats.Total++

		switch e.Status() {
		case model.StatusSent:
			stats.Sent++
		case model.StatusFailed:
			stats.Failed++
		default:
			stats.Pending++
		}

		if _, known := stats.ByType[e.Type]; known {
			stats.ByType[e.Type]++
		}

		if !e.CreatedAt.Before(dayStart) {
			stats.Today++
		}
		if !e.CreatedAt.Before(weekStart) {
			stats.ThisWeek++
		}
		if !e.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}
	}

	return stats
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek uses Sunday as the first day, matching the admin UI's
// week boundary.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
