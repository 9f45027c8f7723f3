package shortcuts

import (
	"unicode"

	"msgcore/internal/models"
)

// ShouldPresentShortcut decides whether a conversation deserves a preferred
// shortcut. Group conversations always do. Other conversations do not when
// archived or when the sender number is not purely digits (short codes,
// alphanumeric senders).
func ShouldPresentShortcut(conv models.Conversation) bool {
	if conv.IsGroupConversation {
		return true
	}
	if conv.IsArchived || !isDigitsOnly(conv.PhoneNumber) {
		return false
	}
	return true
}

// RankFor returns the shortcut rank for a conversation.
func RankFor(conv models.Conversation) int {
	if ShouldPresentShortcut(conv) {
		return models.RankDefault
	}
	return models.RankDeprioritized
}

// isDigitsOnly matches the platform check: every code point is a digit.
// The empty string qualifies.
func isDigitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
