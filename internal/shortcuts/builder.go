// Package shortcuts builds, ranks and publishes conversation shortcuts.
package shortcuts

import (
	"context"
	"log/slog"
	"strconv"

	"msgcore/internal/models"
)

// MaxShortLabelLength is the display cap for a shortcut's short label.
const MaxShortLabelLength = 11

// ConversationSource looks up conversations and their participants.
type ConversationSource interface {
	Conversations(ctx context.Context, threadID int64) ([]models.Conversation, error)
	ThreadParticipants(ctx context.Context, threadID int64) ([]models.Participant, error)
}

// IconResolver resolves participant and group icons.
type IconResolver interface {
	ResolveIcon(p models.Participant) models.Icon
	ColoredGroupIcon(title string) models.Icon
	Person(p models.Participant) models.Person
}

// Builder derives shortcut descriptors from conversations.
type Builder struct {
	source ConversationSource
	icons  IconResolver
}

// NewBuilder creates a builder.
func NewBuilder(source ConversationSource, icons IconResolver) *Builder {
	return &Builder{source: source, icons: icons}
}

// Build creates a descriptor for conv, tagged with capabilities.
func (b *Builder) Build(ctx context.Context, conv models.Conversation, capabilities ...string) models.Shortcut {
	return b.build(ctx, conv, capabilities, true)
}

// BuildForThread creates a descriptor when only the thread identity is known.
// Lookups run only when allowSynchronousLookup is set; otherwise, or when no
// conversation is found, a placeholder conversation titled with the id is used
// so the call always yields a descriptor.
func (b *Builder) BuildForThread(ctx context.Context, threadID int64, capabilities []string, allowSynchronousLookup bool) models.Shortcut {
	if allowSynchronousLookup {
		convs, err := b.source.Conversations(ctx, threadID)
		if err != nil {
			slog.Warn("conversation lookup failed, using placeholder", "thread_id", threadID, "error", err)
		}
		if len(convs) > 0 {
			return b.build(ctx, convs[0], capabilities, true)
		}
	}
	return b.build(ctx, placeholderConversation(threadID), capabilities, allowSynchronousLookup)
}

func (b *Builder) build(ctx context.Context, conv models.Conversation, capabilities []string, lookupParticipants bool) models.Shortcut {
	var participants []models.Participant
	if lookupParticipants {
		var err error
		participants, err = b.source.ThreadParticipants(ctx, conv.ThreadID)
		if err != nil {
			slog.Warn("participant lookup failed", "thread_id", conv.ThreadID, "error", err)
		}
	}

	persons := make([]models.Person, 0, len(participants))
	for _, p := range participants {
		persons = append(persons, b.icons.Person(p))
	}

	s := models.Shortcut{
		ID:         models.ShortcutID(conv.ThreadID),
		ShortLabel: ShortLabel(conv.Title),
		LongLabel:  conv.Title,
		Rank:       RankFor(conv),
		Persons:    persons,
		Target: models.ShortcutTarget{
			ThreadID:    conv.ThreadID,
			ThreadTitle: conv.Title,
		},
		IsLongLived:    true,
		IsConversation: true,
	}
	if len(capabilities) > 0 {
		s.Capabilities = append([]string(nil), capabilities...)
	}

	switch {
	case conv.IsGroupConversation:
		s.Icon = b.icons.ColoredGroupIcon(conv.Title)
	case len(persons) > 0:
		s.Icon = persons[0].Icon
	default:
		s.Icon = b.icons.ResolveIcon(models.Participant{
			Name:         conv.Title,
			PhotoURI:     conv.PhotoURI,
			PhoneNumbers: nonEmpty(conv.PhoneNumber),
		})
	}

	return s
}

// ShortLabel truncates title to at most MaxShortLabelLength characters. A
// title at or under the cap loses its last character; this matches labels
// already published by earlier clients and is kept for compatibility.
func ShortLabel(title string) string {
	runes := []rune(title)
	n := len(runes) - 1
	if len(runes) > MaxShortLabelLength {
		n = MaxShortLabelLength
	}
	if n <= 0 {
		return ""
	}
	return string(runes[:n])
}

func placeholderConversation(threadID int64) models.Conversation {
	return models.Conversation{
		ThreadID: threadID,
		Title:    strconv.FormatInt(threadID, 10),
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
