package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"communityhub/internal/model"
)

type EngagementRepository struct {
	db *pgxpool.Pool
}

func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// ListForNetwork returns every member's counters, ordered by user_id so
// leaderboard ties rank deterministically.
func (r *EngagementRepository) ListForNetwork(ctx context.Context, networkID string) ([]model.EngagementStats, error) {
	query := `
        SELECT user_id, network_id, posts_count, events_attended, messages_sent,
               wiki_contributions, polls_participated, files_shared, last_active
        FROM engagement_stats
        WHERE network_id = $1
        ORDER BY user_id
    `

	rows, err := r.db.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement stats: %w", err)
	}
	defer rows.Close()

	stats := []model.EngagementStats{}
	for rows.Next() {
		var s model.EngagementStats
		err := rows.Scan(
			&s.UserID,
			&s.NetworkID,
			&s.PostsCount,
			&s.EventsAttended,
			&s.MessagesSent,
			&s.WikiContributions,
			&s.PollsParticipated,
			&s.FilesShared,
			&s.LastActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
