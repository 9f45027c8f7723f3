package shortcuts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"msgcore/internal/metrics"
	"msgcore/internal/models"
)

// Registry is the only mutator of the shortcut inventory.
type Registry struct {
	inv     Inventory
	builder *Builder
}

// NewRegistry creates a registry over inv.
func NewRegistry(inv Inventory, builder *Builder) *Registry {
	return &Registry{inv: inv, builder: builder}
}

// Builder returns the builder used for thread-based operations.
func (r *Registry) Builder() *Builder {
	return r.builder
}

// ListAll returns every published shortcut, best rank first.
func (r *Registry) ListAll(ctx context.Context) ([]models.Shortcut, error) {
	shortcuts, err := r.inv.Dynamic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shortcuts: %w", err)
	}
	return shortcuts, nil
}

// FindByID returns the shortcut for threadID, or nil when none is published.
func (r *Registry) FindByID(ctx context.Context, threadID int64) (*models.Shortcut, error) {
	shortcuts, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	id := models.ShortcutID(threadID)
	for i := range shortcuts {
		if shortcuts[i].ID == id {
			return &shortcuts[i], nil
		}
	}
	return nil, nil
}

// Upsert updates the shortcut in place when one with the same ID exists and
// publishes it otherwise. It reports whether a new shortcut was published.
func (r *Registry) Upsert(ctx context.Context, s models.Shortcut) (bool, error) {
	threadID, err := s.ThreadID()
	if err != nil {
		return false, fmt.Errorf("shortcut id %q: %w", s.ID, err)
	}
	existing, err := r.FindByID(ctx, threadID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		applied, err := r.inv.Update(ctx, []models.Shortcut{s})
		if err != nil {
			return false, fmt.Errorf("update shortcut: %w", err)
		}
		if slices.Contains(applied, s.ID) {
			metrics.RecordShortcutOperation("update")
			return false, nil
		}
		// Removed since the lookup; publish it again.
	}

	if err := r.inv.Push(ctx, s); err != nil {
		return false, fmt.Errorf("publish shortcut: %w", err)
	}
	metrics.RecordShortcutOperation("publish")
	return true, nil
}

// CreateOrUpdate builds the shortcut for conv and upserts it.
func (r *Registry) CreateOrUpdate(ctx context.Context, conv models.Conversation) (models.Shortcut, error) {
	s := r.builder.Build(ctx, conv)
	if _, err := r.Upsert(ctx, s); err != nil {
		return models.Shortcut{}, err
	}
	return s, nil
}

// CreateOrUpdateThread builds the shortcut for threadID and upserts it.
func (r *Registry) CreateOrUpdateThread(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error) {
	s := r.builder.BuildForThread(ctx, threadID, nil, allowSynchronousLookup)
	if _, err := r.Upsert(ctx, s); err != nil {
		return models.Shortcut{}, err
	}
	return s, nil
}

// RemoveOne removes the shortcut for threadID. It reports false when there
// was nothing to remove.
func (r *Registry) RemoveOne(ctx context.Context, threadID int64) (bool, error) {
	existing, err := r.FindByID(ctx, threadID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if err := r.inv.RemoveDynamic(ctx, []string{existing.ID}); err != nil {
		return false, fmt.Errorf("remove shortcut: %w", err)
	}
	metrics.RecordShortcutOperation("remove")
	return true, nil
}

// RemoveAll clears the inventory, including long-lived retention. It does
// nothing when no shortcut is published.
func (r *Registry) RemoveAll(ctx context.Context) error {
	shortcuts, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(shortcuts) == 0 {
		return nil
	}

	ids := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		ids[i] = s.ID
	}
	if err := r.inv.RemoveLongLived(ctx, ids); err != nil {
		return fmt.Errorf("remove long-lived shortcuts: %w", err)
	}
	if err := r.inv.RemoveAllDynamic(ctx); err != nil {
		return fmt.Errorf("remove all shortcuts: %w", err)
	}
	metrics.RecordShortcutOperation("remove_all")
	return nil
}

// ReportUsage signals that capability was used on threadID. The shortcut is
// always republished, whether or not it already exists.
func (r *Registry) ReportUsage(ctx context.Context, threadID int64, capability string, allowSynchronousLookup bool) (models.Shortcut, error) {
	s := r.builder.BuildForThread(ctx, threadID, []string{capability}, allowSynchronousLookup)
	if err := r.inv.Push(ctx, s); err != nil {
		return models.Shortcut{}, fmt.Errorf("report usage: %w", err)
	}
	metrics.RecordShortcutOperation("usage")
	return s, nil
}

// ReportSendMessageUsage reports an outgoing message on threadID.
func (r *Registry) ReportSendMessageUsage(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error) {
	return r.ReportUsage(ctx, threadID, models.CapabilitySendMessage, allowSynchronousLookup)
}

// ReportReceiveMessageUsage reports an incoming message on threadID.
func (r *Registry) ReportReceiveMessageUsage(ctx context.Context, threadID int64, allowSynchronousLookup bool) (models.Shortcut, error) {
	return r.ReportUsage(ctx, threadID, models.CapabilityReceiveMessage, allowSynchronousLookup)
}

// Refresh rebuilds every published shortcut so rank and labels follow the
// current conversation state. Capabilities are carried over. It returns the
// number of shortcuts refreshed, which excludes any removed meanwhile.
func (r *Registry) Refresh(ctx context.Context) (int, error) {
	shortcuts, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := make([]models.Shortcut, 0, len(shortcuts))
	for _, s := range shortcuts {
		threadID, err := s.ThreadID()
		if err != nil {
			slog.Warn("skipping shortcut with non-numeric id", "id", s.ID)
			continue
		}
		updated = append(updated, r.builder.BuildForThread(ctx, threadID, s.Capabilities, true))
	}
	if len(updated) == 0 {
		return 0, nil
	}
	applied, err := r.inv.Update(ctx, updated)
	if err != nil {
		return 0, fmt.Errorf("refresh shortcuts: %w", err)
	}
	metrics.RecordShortcutOperation("refresh")
	return len(applied), nil
}

// Ping checks the inventory is reachable.
func (r *Registry) Ping(ctx context.Context) error {
	return r.inv.Ping(ctx)
}
