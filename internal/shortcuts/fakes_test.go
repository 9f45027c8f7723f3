package shortcuts

import (
	"context"
	"errors"
	"sync"

	"msgcore/internal/models"
)

type fakeSource struct {
	mu              sync.Mutex
	conversations   map[int64]models.Conversation
	participants    map[int64][]models.Participant
	err             error
	lookups         int
	participantHits int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		conversations: make(map[int64]models.Conversation),
		participants:  make(map[int64][]models.Participant),
	}
}

func (f *fakeSource) add(conv models.Conversation, participants ...models.Participant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conv.ThreadID] = conv
	f.participants[conv.ThreadID] = participants
}

func (f *fakeSource) Conversations(ctx context.Context, threadID int64) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	conv, ok := f.conversations[threadID]
	if !ok {
		return nil, nil
	}
	return []models.Conversation{conv}, nil
}

func (f *fakeSource) ThreadParticipants(ctx context.Context, threadID int64) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participantHits++
	if f.err != nil {
		return nil, f.err
	}
	return f.participants[threadID], nil
}

var errLookup = errors.New("provider crashed")
