package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"msgcore/internal/handlers/api"
	"msgcore/internal/jobs"
	"msgcore/internal/keywords"
	"msgcore/internal/middleware"
	"msgcore/internal/shortcuts"
)

// Dependencies are the services the routes are served from.
type Dependencies struct {
	Keywords     *keywords.Store
	Registry     *shortcuts.Registry
	Source       shortcuts.ConversationSource
	Sync         *jobs.ShortcutSync
	Database     api.Pinger // nil when running without Postgres
	Inventory    api.Pinger
	Capabilities api.CapabilityFunc
	Auth         *middleware.AuthMiddleware // nil disables bearer auth
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Dependencies) {
	keywordHandler := api.NewKeywordHandler(deps.Keywords, s.Cfg.ExportDir)
	shortcutHandler := api.NewShortcutHandler(deps.Registry, deps.Source, deps.Capabilities)
	eventHandler := api.NewEventHandler(deps.Sync)
	healthHandler := api.NewHealthHandler(deps.Database, deps.Inventory)

	// Operational routes stay unauthenticated for probes and scrapers
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := s.App.Group("/api", deps.Auth.RequireAuth)

	// Blocked keywords
	apiGroup.Get("/keywords", keywordHandler.List)
	apiGroup.Post("/keywords", keywordHandler.Add)
	apiGroup.Post("/keywords/import", keywordHandler.Import)
	apiGroup.Get("/keywords/export", keywordHandler.Export)
	apiGroup.Post("/keywords/export-file", keywordHandler.ExportFile)
	apiGroup.Get("/keywords/export-path", keywordHandler.ExportPath)
	apiGroup.Delete("/keywords/:keyword", keywordHandler.Remove)

	// Conversation shortcuts
	apiGroup.Get("/shortcuts", shortcutHandler.List)
	apiGroup.Delete("/shortcuts", shortcutHandler.RemoveAll)
	apiGroup.Get("/shortcuts/:id", shortcutHandler.Get)
	apiGroup.Put("/shortcuts/:id", shortcutHandler.Upsert)
	apiGroup.Delete("/shortcuts/:id", shortcutHandler.Remove)
	apiGroup.Post("/shortcuts/:id/usage", shortcutHandler.ReportUsage)
	apiGroup.Get("/shortcuts/:id/presentation", shortcutHandler.Presentation)

	// Conversation lifecycle events
	apiGroup.Post("/events", eventHandler.Submit)
}
