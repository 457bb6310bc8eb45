package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"communityhub/internal/model"
)

type OnboardingRepository struct {
	db *pgxpool.Pool
}

func NewOnboardingRepository(db *pgxpool.Pool) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

const onboardingColumns = `
        profile_id, network_id,
        profile_completed, profile_completed_at,
        avatar_uploaded, avatar_uploaded_at,
        first_post_created, first_post_created_at,
        first_event_joined, first_event_joined_at,
        first_comment_posted, first_comment_posted_at,
        is_dismissed, is_completed, progress_percentage,
        created_at, updated_at
`

// GetOrCreate reads a member's checklist, creating an empty row on first
// read (upsert-on-miss).
func (r *OnboardingRepository) GetOrCreate(ctx context.Context, profileID, networkID string) (*model.OnboardingProgress, error) {
	insert := `
        INSERT INTO onboarding_progress (profile_id, network_id, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        ON CONFLICT (profile_id) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, insert, profileID, networkID); err != nil {
		return nil, fmt.Errorf("failed to upsert onboarding progress: %w", err)
	}

	query := `SELECT ` + onboardingColumns + ` FROM onboarding_progress WHERE profile_id = $1`
	var p model.OnboardingProgress
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&p.ProfileID,
		&p.NetworkID,
		&p.ProfileCompleted,
		&p.ProfileCompletedAt,
		&p.AvatarUploaded,
		&p.AvatarUploadedAt,
		&p.FirstPostCreated,
		&p.FirstPostCreatedAt,
		&p.FirstEventJoined,
		&p.FirstEventJoinedAt,
		&p.FirstCommentPosted,
		&p.FirstCommentAt,
		&p.IsDismissed,
		&p.IsCompleted,
		&p.ProgressPercentage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read onboarding progress: %w", err)
	}
	return &p, nil
}

// itemColumns maps checklist item names to their flag/timestamp columns.
// Closed set; only these identifiers reach SQL.
var itemColumns = map[string][2]string{
	"profile_completed":    {"profile_completed", "profile_completed_at"},
	"avatar_uploaded":      {"avatar_uploaded", "avatar_uploaded_at"},
	"first_post_created":   {"first_post_created", "first_post_created_at"},
	"first_event_joined":   {"first_event_joined", "first_event_joined_at"},
	"first_comment_posted": {"first_comment_posted", "first_comment_posted_at"},
}

// MarkItem sets one checklist flag and its timestamp.
func (r *OnboardingRepository) MarkItem(ctx context.Context, profileID, item string) error {
	cols, ok := itemColumns[item]
	if !ok {
		return fmt.Errorf("unknown onboarding item: %s", item)
	}

	query := fmt.Sprintf(`
        UPDATE onboarding_progress
        SET %s = TRUE, %s = NOW(), updated_at = NOW()
        WHERE profile_id = $1
    `, cols[0], cols[1])

	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to mark onboarding item %s: %w", item, err)
	}
	return nil
}

// UpdateProgress persists the recomputed percentage and completion flag.
func (r *OnboardingRepository) UpdateProgress(ctx context.Context, profileID string, percentage int, completed bool) error {
	query := `
        UPDATE onboarding_progress
        SET progress_percentage = $1, is_completed = $2, updated_at = NOW()
        WHERE profile_id = $3
    `
	if _, err := r.db.Exec(ctx, query, percentage, completed, profileID); err != nil {
		return fmt.Errorf("failed to update onboarding progress: %w", err)
	}
	return nil
}

// Dismiss hides the checklist for a member.
func (r *OnboardingRepository) Dismiss(ctx context.Context, profileID string) error {
	query := `
        UPDATE onboarding_progress
        SET is_dismissed = TRUE, updated_at = NOW()
        WHERE profile_id = $1
    `
	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to dismiss onboarding: %w", err)
	}
	return nil
}

// Reset clears every flag, timestamp and the dismissal.
func (r *OnboardingRepository) Reset(ctx context.Context, profileID string) error {
	query := `
        UPDATE onboarding_progress
        SET profile_completed = FALSE, profile_completed_at = NULL,
            avatar_uploaded = FALSE, avatar_uploaded_at = NULL,
            first_post_created = FALSE, first_post_created_at = NULL,
            first_event_joined = FALSE, first_event_joined_at = NULL,
            first_comment_posted = FALSE, first_comment_posted_at = NULL,
            is_dismissed = FALSE, is_completed = FALSE, progress_percentage = 0,
            updated_at = NOW()
        WHERE profile_id = $1
    `
	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to reset onboarding: %w", err)
	}
	return nil
}
