package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"msgcore/internal/config"
	"msgcore/internal/contacts"
	"msgcore/internal/db"
	"msgcore/internal/jobs"
	"msgcore/internal/keywords"
	"msgcore/internal/metrics"
	"msgcore/internal/middleware"
	"msgcore/internal/server"
	"msgcore/internal/shortcuts"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", cfg.ConfigFile, err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.IsDev() {
		if err := database.SeedDevConversations(ctx); err != nil {
			log.Printf("Warning: failed to seed dev conversations: %v", err)
		}
	}

	// Blocked keywords
	store := keywords.NewStore(database, cfg.ExportDir)
	if n, err := store.Seed(ctx, yamlCfg.GetSeedKeywords()); err != nil {
		log.Printf("Warning: failed to seed blocked keywords: %v", err)
	} else if n > 0 {
		log.Printf("Seeded %d blocked keywords", n)
	}

	// Shortcut inventory
	var inventory *shortcuts.KVInventory
	if cfg.UsesRedis() {
		inventory = shortcuts.NewRedisInventory(cfg.RedisURL, cfg.MaxShortcuts)
		log.Println("Shortcut inventory stored in Redis")
	} else {
		inventory = shortcuts.NewMemoryInventory(cfg.MaxShortcuts)
		log.Println("Shortcut inventory held in memory")
	}
	defer inventory.Close()

	builder := shortcuts.NewBuilder(database, contacts.NewResolver(yamlCfg.GetPalette()))
	registry := shortcuts.NewRegistry(inventory, builder)

	metrics.Init(store)

	// Background sync worker
	sync := jobs.NewShortcutSync(registry, database, 256, cfg.ShortcutRefreshInterval)
	go sync.Start(ctx)

	// API auth
	var auth *middleware.AuthMiddleware
	if cfg.AuthEnabled() {
		auth, err = middleware.NewAuthMiddleware(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC auth: %v", err)
		}
	} else {
		log.Println("API authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Dependencies{
		Keywords:     store,
		Registry:     registry,
		Source:       database,
		Sync:         sync,
		Database:     database,
		Inventory:    inventory,
		Capabilities: yamlCfg.Capability,
		Auth:         auth,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
