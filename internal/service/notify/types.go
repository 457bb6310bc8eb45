package notify

import (
	"unicode/utf8"

	"communityhub/internal/model"
)

// Result is what every producer call returns. Producer methods never
// return a Go error: enqueueing is a best-effort side effect of the
// primary action, so failures are encoded here and logged, and the call
// site decides nothing beyond logging.
type Result struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure reasons, used as the metrics label.
const (
	reasonLookup         = "lookup"
	reasonInsert         = "insert"
	reasonContactChannel = "contact_channel"
)

// prefFieldFor maps each fan-out notification type to the profile flag
// that gates it. Closed dispatch table; no flag names are looked up by
// string at call sites. Portfolio posts ride the news flag, there is no
// separate opt-in for them.
var prefFieldFor = map[model.NotificationType]model.PreferenceField{
	model.TypeNews:          model.PrefNews,
	model.TypePost:          model.PrefNews,
	model.TypeEvent:         model.PrefEvents,
	model.TypeMention:       model.PrefMentions,
	model.TypeDirectMessage: model.PrefDirectMessages,
}

// previewLimit caps content previews stored on queue rows. The delivery
// worker re-resolves full content through related_item_id.
const previewLimit = 200

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
