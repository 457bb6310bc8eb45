package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"communityhub/internal/model"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
        id, network_id, COALESCE(full_name, ''), COALESCE(contact_email, ''),
        role, email_notifications_enabled, notify_on_news, notify_on_events,
        notify_on_mentions, notify_on_direct_messages,
        COALESCE(notification_digest_frequency, 'immediate'),
        COALESCE(digest_preferred_time, ''), created_at
`

func scanProfile(row interface{ Scan(dest ...any) error }) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.NetworkID,
		&p.FullName,
		&p.ContactEmail,
		&p.Role,
		&p.EmailNotificationsEnabled,
		&p.NotifyOnNews,
		&p.NotifyOnEvents,
		&p.NotifyOnMentions,
		&p.NotifyOnDirectMessages,
		&p.NotificationDigestFrequency,
		&p.DigestPreferredTime,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID returns one profile with its notification preferences.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find profile %s: %w", id, err)
	}
	return p, nil
}

// EligibleRecipients returns every profile in the network with email
// notifications enabled and the given per-type flag set, excluding
// excludeID (the author never notifies themselves). The preference field
// is validated against the closed set before interpolation.
func (r *ProfileRepository) EligibleRecipients(ctx context.Context, networkID string, pref model.PreferenceField, excludeID string) ([]model.Profile, error) {
	if !pref.Valid() {
		return nil, fmt.Errorf("unknown preference field: %s", pref)
	}

	query := fmt.Sprintf(`
        SELECT `+profileColumns+`
        FROM profiles
        WHERE network_id = $1
          AND email_notifications_enabled = TRUE
          AND %s = TRUE
          AND id <> $2
        ORDER BY id
    `, string(pref))

	rows, err := r.db.Query(ctx, query, networkID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible recipients: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// NetworkAdmins returns the admins of a network, for proposal fan-out.
func (r *ProfileRepository) NetworkAdmins(ctx context.Context, networkID string) ([]model.Profile, error) {
	query := `
        SELECT ` + profileColumns + `
        FROM profiles
        WHERE network_id = $1 AND role = $2
        ORDER BY id
    `

	rows, err := r.db.Query(ctx, query, networkID, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query network admins: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}
