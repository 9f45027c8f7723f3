package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"msgcore/internal/models"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports dependency health.
type HealthHandler struct {
	database  Pinger
	inventory Pinger
}

// NewHealthHandler creates a health handler. database may be nil when the
// service runs without Postgres.
func NewHealthHandler(database, inventory Pinger) *HealthHandler {
	return &HealthHandler{database: database, inventory: inventory}
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

// Check pings every dependency and answers 503 if any is down.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Database:  pingStatus(ctx, h.database),
		Inventory: pingStatus(ctx, h.inventory),
		CheckedAt: time.Now().UTC(),
	}
	if resp.Database == "unavailable" || resp.Inventory == "unavailable" {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return jsonSuccess(c, resp)
}
