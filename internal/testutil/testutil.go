// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"msgcore/internal/contacts"
	"msgcore/internal/db"
	"msgcore/internal/models"
	"msgcore/internal/shortcuts"
)

// TestDB creates a test database connection and returns a cleanup function.
// The test is skipped when TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM thread_participants")
	pool.Exec(ctx, "DELETE FROM conversations")
	pool.Exec(ctx, "DELETE FROM blocked_keywords")
	pool.Exec(ctx, "DELETE FROM settings")
}

// StaticSource is an in-memory conversation source.
type StaticSource struct {
	mu           sync.RWMutex
	convs        map[int64]models.Conversation
	participants map[int64][]models.Participant
}

// NewStaticSource creates an empty source.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		convs:        make(map[int64]models.Conversation),
		participants: make(map[int64][]models.Participant),
	}
}

// Add stores conv and its participants.
func (s *StaticSource) Add(conv models.Conversation, participants ...models.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conv.ThreadID] = conv
	s.participants[conv.ThreadID] = participants
}

func (s *StaticSource) Conversations(ctx context.Context, threadID int64) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[threadID]
	if !ok {
		return nil, nil
	}
	return []models.Conversation{conv}, nil
}

func (s *StaticSource) ThreadParticipants(ctx context.Context, threadID int64) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Participant(nil), s.participants[threadID]...), nil
}

func (s *StaticSource) UpsertConversation(ctx context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[c.ThreadID] = *c
	return nil
}

func (s *StaticSource) DeleteConversation(ctx context.Context, threadID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, threadID)
	delete(s.participants, threadID)
	return nil
}

// NewMemoryRegistry wires a registry over an in-memory inventory of max
// shortcuts, resolving conversations from source.
func NewMemoryRegistry(source shortcuts.ConversationSource, max int) *shortcuts.Registry {
	builder := shortcuts.NewBuilder(source, contacts.NewResolver(nil))
	return shortcuts.NewRegistry(shortcuts.NewMemoryInventory(max), builder)
}
