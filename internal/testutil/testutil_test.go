package testutil

import (
	"context"
	"testing"

	"msgcore/internal/models"
)

func TestStaticSource(t *testing.T) {
	ctx := context.Background()
	src := NewStaticSource()
	src.Add(models.Conversation{ThreadID: 1, Title: "Alice"}, models.Participant{Name: "Alice"})

	convs, err := src.Conversations(ctx, 1)
	if err != nil || len(convs) != 1 || convs[0].Title != "Alice" {
		t.Fatalf("Conversations() = (%v, %v)", convs, err)
	}
	participants, _ := src.ThreadParticipants(ctx, 1)
	if len(participants) != 1 {
		t.Errorf("ThreadParticipants() = %v, want 1 entry", participants)
	}

	if err := src.DeleteConversation(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if convs, _ := src.Conversations(ctx, 1); len(convs) != 0 {
		t.Errorf("Conversations() after delete = %v, want empty", convs)
	}
}

func TestNewMemoryRegistry(t *testing.T) {
	src := NewStaticSource()
	src.Add(models.Conversation{ThreadID: 3, Title: "Bob", PhoneNumber: "5551234"})

	reg := NewMemoryRegistry(src, 2)
	s, err := reg.CreateOrUpdateThread(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("CreateOrUpdateThread() error = %v", err)
	}
	if s.LongLabel != "Bob" {
		t.Errorf("LongLabel = %q, want Bob", s.LongLabel)
	}
}
