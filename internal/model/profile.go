package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// PreferenceField names a per-type opt-in column on profiles. The set is
// closed; repositories only interpolate these known identifiers into SQL.
type PreferenceField string

const (
	PrefNews           PreferenceField = "notify_on_news"
	PrefEvents         PreferenceField = "notify_on_events"
	PrefMentions       PreferenceField = "notify_on_mentions"
	PrefDirectMessages PreferenceField = "notify_on_direct_messages"
)

func (f PreferenceField) Valid() bool {
	switch f {
	case PrefNews, PrefEvents, PrefMentions, PrefDirectMessages:
		return true
	}
	return false
}

// Profile is the subset of the profiles table this service reads:
// notification preferences plus the contact channel. Owned by the
// user-settings surface; read-only here.
type Profile struct {
	ID                          string
	NetworkID                   string
	FullName                    string
	ContactEmail                string
	Role                        string
	EmailNotificationsEnabled   bool
	NotifyOnNews                bool
	NotifyOnEvents              bool
	NotifyOnMentions            bool
	NotifyOnDirectMessages      bool
	NotificationDigestFrequency string // immediate, hourly, daily, weekly
	DigestPreferredTime         string
	CreatedAt                   time.Time
}
