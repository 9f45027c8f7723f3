package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"msgcore/internal/jobs"
)

// EventHandler queues conversation events for the shortcut sync worker.
type EventHandler struct {
	sync *jobs.ShortcutSync
}

// NewEventHandler creates a new API event handler.
func NewEventHandler(sync *jobs.ShortcutSync) *EventHandler {
	return &EventHandler{sync: sync}
}

// Submit validates and enqueues an event. It answers 202 once queued and 503
// when the queue is full.
func (h *EventHandler) Submit(c fiber.Ctx) error {
	var e jobs.Event
	if err := json.Unmarshal(c.Body(), &e); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !e.Kind.Valid() {
		return jsonError(c, fiber.StatusBadRequest, "unknown event kind")
	}
	if e.Kind != jobs.EventAllDeleted && e.ThreadID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "thread_id is required")
	}

	if !h.sync.Submit(e) {
		return jsonError(c, fiber.StatusServiceUnavailable, "event queue full")
	}
	c.Status(fiber.StatusAccepted)
	return jsonSuccess(c, fiber.Map{"queued": true})
}
