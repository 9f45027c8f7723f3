package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"msgcore/internal/models"
	"msgcore/internal/shortcuts"
	"msgcore/internal/validation"
)

// CapabilityFunc maps a usage action such as "send" to a capability.
type CapabilityFunc func(action string) (string, bool)

// ShortcutHandler exposes the shortcut registry via JSON API.
type ShortcutHandler struct {
	registry     *shortcuts.Registry
	source       shortcuts.ConversationSource
	capabilities CapabilityFunc
}

// NewShortcutHandler creates a new API shortcut handler.
func NewShortcutHandler(registry *shortcuts.Registry, source shortcuts.ConversationSource, capabilities CapabilityFunc) *ShortcutHandler {
	return &ShortcutHandler{registry: registry, source: source, capabilities: capabilities}
}

func threadIDParam(c fiber.Ctx) (int64, bool) {
	return validation.ParseThreadID(c.Params("id"))
}

// allowLookup reads the ?lookup= flag. Lookups are allowed unless the client
// opts out, e.g. when it already knows the conversation is unsynced.
func allowLookup(c fiber.Ctx) bool {
	return c.Query("lookup") != "false"
}

// List returns every published shortcut, best rank first.
func (h *ShortcutHandler) List(c fiber.Ctx) error {
	list, err := h.registry.ListAll(c.Context())
	if err != nil {
		slog.Error("failed to list shortcuts", "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	if list == nil {
		list = []models.Shortcut{}
	}
	return jsonSuccess(c, list)
}

// Get returns the shortcut published for a thread.
func (h *ShortcutHandler) Get(c fiber.Ctx) error {
	threadID, ok := threadIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	s, err := h.registry.FindByID(c.Context(), threadID)
	if err != nil {
		slog.Error("failed to find shortcut", "thread_id", threadID, "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	if s == nil {
		return jsonError(c, fiber.StatusNotFound, "shortcut not found")
	}
	return jsonSuccess(c, s)
}

// Upsert creates or refreshes the shortcut for a thread.
func (h *ShortcutHandler) Upsert(c fiber.Ctx) error {
	threadID, ok := threadIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	s, err := h.registry.CreateOrUpdateThread(c.Context(), threadID, allowLookup(c))
	if err != nil {
		slog.Error("failed to publish shortcut", "thread_id", threadID, "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	return jsonSuccess(c, s)
}

// Remove deletes the shortcut for a thread.
func (h *ShortcutHandler) Remove(c fiber.Ctx) error {
	threadID, ok := threadIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	removed, err := h.registry.RemoveOne(c.Context(), threadID)
	if err != nil {
		slog.Error("failed to remove shortcut", "thread_id", threadID, "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	if !removed {
		return jsonError(c, fiber.StatusNotFound, "shortcut not found")
	}
	return jsonSuccess(c, fiber.Map{"thread_id": threadID})
}

// RemoveAll clears every shortcut.
func (h *ShortcutHandler) RemoveAll(c fiber.Ctx) error {
	if err := h.registry.RemoveAll(c.Context()); err != nil {
		slog.Error("failed to remove all shortcuts", "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	return jsonSuccess(c, fiber.Map{"removed": true})
}

// ReportUsage records a send or receive on a thread from an
// {"action": "send"|"receive"} body.
func (h *ShortcutHandler) ReportUsage(c fiber.Ctx) error {
	threadID, ok := threadIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	capability, ok := h.capabilities(body.Action)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "unknown action")
	}

	s, err := h.registry.ReportUsage(c.Context(), threadID, capability, allowLookup(c))
	if err != nil {
		slog.Error("failed to report shortcut usage", "thread_id", threadID, "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "shortcut inventory unavailable")
	}
	return jsonSuccess(c, s)
}

// Presentation reports whether a thread should be offered as a shortcut and
// at which rank.
func (h *ShortcutHandler) Presentation(c fiber.Ctx) error {
	threadID, ok := threadIDParam(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid thread id")
	}

	convs, err := h.source.Conversations(c.Context(), threadID)
	if err != nil {
		slog.Error("failed to look up conversation", "thread_id", threadID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch conversation")
	}
	if len(convs) == 0 {
		return jsonError(c, fiber.StatusNotFound, "conversation not found")
	}

	return jsonSuccess(c, models.PresentationResponse{
		ThreadID:    threadID,
		Presentable: shortcuts.ShouldPresentShortcut(convs[0]),
		Rank:        shortcuts.RankFor(convs[0]),
	})
}
