package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"msgcore/internal/metrics"
	"msgcore/internal/models"
)

// EventKind identifies a conversation lifecycle event.
type EventKind string

const (
	EventMessageSent         EventKind = "message_sent"
	EventMessageReceived     EventKind = "message_received"
	EventConversationUpdated EventKind = "conversation_updated"
	EventConversationDeleted EventKind = "conversation_deleted"
	EventAllDeleted          EventKind = "all_deleted"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventMessageSent, EventMessageReceived, EventConversationUpdated,
		EventConversationDeleted, EventAllDeleted:
		return true
	}
	return false
}

// Event is a conversation change to mirror into the shortcut inventory.
// Conversation is optional and, when set, is stored before the shortcut is
// rebuilt.
type Event struct {
	Kind         EventKind            `json:"kind"`
	ThreadID     int64                `json:"thread_id"`
	Conversation *models.Conversation `json:"conversation,omitempty"`
}

// Registry is the part of shortcuts.Registry the worker drives.
type Registry interface {
	ReportSendMessageUsage(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error)
	ReportReceiveMessageUsage(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error)
	CreateOrUpdateThread(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error)
	RemoveOne(ctx context.Context, threadID int64) (bool, error)
	RemoveAll(ctx context.Context) error
	Refresh(ctx context.Context) (int, error)
}

// ConversationWriter persists conversations carried by events.
type ConversationWriter interface {
	UpsertConversation(ctx context.Context, c *models.Conversation) error
	DeleteConversation(ctx context.Context, threadID int64) error
}

// ShortcutSync applies conversation events to the shortcut registry off the
// request path. Lookups run synchronously here since this is a worker.
type ShortcutSync struct {
	registry Registry
	writer   ConversationWriter
	events   chan Event
	interval time.Duration
}

// NewShortcutSync creates a worker with a queue of queueSize events. A zero
// interval disables periodic re-ranking. writer may be nil.
func NewShortcutSync(registry Registry, writer ConversationWriter, queueSize int, interval time.Duration) *ShortcutSync {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &ShortcutSync{
		registry: registry,
		writer:   writer,
		events:   make(chan Event, queueSize),
		interval: interval,
	}
}

// Submit queues e without blocking. It returns false when the queue is full
// and the event was dropped.
func (s *ShortcutSync) Submit(e Event) bool {
	select {
	case s.events <- e:
		return true
	default:
		metrics.RecordSyncDropped()
		slog.Warn("shortcut sync queue full, dropping event", "kind", e.Kind, "thread_id", e.ThreadID)
		return false
	}
}

// Start processes events until ctx is cancelled.
func (s *ShortcutSync) Start(ctx context.Context) {
	slog.Info("shortcut sync started", "refresh_interval", s.interval)

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("shortcut sync stopped")
			return
		case e := <-s.events:
			if err := s.Apply(ctx, e); err != nil {
				slog.Error("failed to apply conversation event", "kind", e.Kind, "thread_id", e.ThreadID, "error", err)
			}
		case <-tick:
			n, err := s.registry.Refresh(ctx)
			if err != nil {
				slog.Error("failed to refresh shortcuts", "error", err)
				continue
			}
			slog.Debug("refreshed shortcuts", "count", n)
		}
	}
}

// Apply handles a single event synchronously.
func (s *ShortcutSync) Apply(ctx context.Context, e Event) error {
	switch e.Kind {
	case EventMessageSent:
		_, err := s.registry.ReportSendMessageUsage(ctx, e.ThreadID, true)
		return err
	case EventMessageReceived:
		_, err := s.registry.ReportReceiveMessageUsage(ctx, e.ThreadID, true)
		return err
	case EventConversationUpdated:
		if e.Conversation != nil && s.writer != nil {
			conv := *e.Conversation
			conv.ThreadID = e.ThreadID
			if err := s.writer.UpsertConversation(ctx, &conv); err != nil {
				return fmt.Errorf("store conversation: %w", err)
			}
		}
		_, err := s.registry.CreateOrUpdateThread(ctx, e.ThreadID, true)
		return err
	case EventConversationDeleted:
		if s.writer != nil {
			if err := s.writer.DeleteConversation(ctx, e.ThreadID); err != nil {
				slog.Warn("failed to delete conversation", "thread_id", e.ThreadID, "error", err)
			}
		}
		_, err := s.registry.RemoveOne(ctx, e.ThreadID)
		return err
	case EventAllDeleted:
		return s.registry.RemoveAll(ctx)
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}
