package notify

import (
	"encoding/json"
	"testing"
	"unicode/utf8"
)

func TestEncodeMetadata(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil degrades to empty object", nil, "{}"},
		{
			"comment",
			CommentMetadata{CommenterName: "Casey", IsReply: true, PostTitle: "Update"},
			`{"commenterName":"Casey","isReply":true,"postTitle":"Update"}`,
		},
		{
			"comment omits empty title",
			CommentMetadata{CommenterName: "Casey"},
			`{"commenterName":"Casey","isReply":false}`,
		},
		{"mention", MentionMetadata{MentionerName: "Pat"}, `{"mentionerName":"Pat"}`},
		{"message", MessageMetadata{SenderID: "u-1"}, `{"senderId":"u-1"}`},
		{
			"status omits empty reason",
			StatusMetadata{Status: "approved"},
			`{"status":"approved"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeMetadata(tt.in)
			if got != tt.want {
				t.Errorf("encodeMetadata() = %s, want %s", got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("output is not valid JSON: %s", got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("1234567890", 10); got != "1234567890" {
		t.Errorf("exact-limit string must pass through, got %q", got)
	}
	if got := truncate("12345678901", 10); got != "1234567890..." {
		t.Errorf("truncate over limit = %q", got)
	}
	// A cut landing inside a multi-byte rune must back up to the rune start.
	if got := truncate("héllo world", 2); got != "h..." {
		t.Errorf("truncate inside multi-byte rune = %q, want %q", got, "h...")
	}
	if got := truncate("héllo world", 3); got != "hé..." {
		t.Errorf("truncate at rune end = %q, want %q", got, "hé...")
	}
	if got := truncate("日本語テキスト", 7); !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
}
