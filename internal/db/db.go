package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"msgcore/internal/models"
	"msgcore/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevConversations inserts sample conversations for development. Existing
// threads are left alone.
func (d *DB) SeedDevConversations(ctx context.Context) error {
	convs := []struct {
		conv         models.Conversation
		participants []models.Participant
	}{
		{
			conv:         models.Conversation{ThreadID: 1, Title: "Mom", PhoneNumber: "5551234567"},
			participants: []models.Participant{{ContactID: 1, Name: "Mom", PhoneNumbers: []string{"5551234567"}}},
		},
		{
			conv: models.Conversation{ThreadID: 2, Title: "Emergency Contacts", IsGroupConversation: true},
			participants: []models.Participant{
				{ContactID: 1, Name: "Mom", PhoneNumbers: []string{"5551234567"}},
				{ContactID: 2, Name: "Dad", PhoneNumbers: []string{"5559876543"}},
			},
		},
		{
			conv: models.Conversation{ThreadID: 3, Title: "BANK", PhoneNumber: "BANK"},
		},
		{
			conv:         models.Conversation{ThreadID: 4, Title: "Old Friend", PhoneNumber: "5550001111", IsArchived: true},
			participants: []models.Participant{{Name: "Old Friend", PhoneNumbers: []string{"5550001111"}}},
		},
	}

	for _, c := range convs {
		var exists bool
		if err := d.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM conversations WHERE thread_id = $1)`, c.conv.ThreadID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check thread %d: %w", c.conv.ThreadID, err)
		}
		if exists {
			continue
		}
		if err := d.UpsertConversation(ctx, &c.conv); err != nil {
			return err
		}
		if err := d.SetThreadParticipants(ctx, c.conv.ThreadID, c.participants); err != nil {
			return err
		}
	}

	return nil
}
