package shortcuts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/storage/redis/v3"

	"msgcore/internal/models"
)

// DefaultMaxShortcuts bounds the number of dynamic shortcuts kept.
const DefaultMaxShortcuts = 15

// Inventory is the platform-owned set of published shortcuts.
type Inventory interface {
	// Dynamic returns published shortcuts, best rank first.
	Dynamic(ctx context.Context) ([]models.Shortcut, error)
	// Push publishes s, replacing any shortcut with the same ID.
	Push(ctx context.Context, s models.Shortcut) error
	// Update refreshes shortcuts that are already published; others are
	// ignored. It returns the IDs it refreshed.
	Update(ctx context.Context, shortcuts []models.Shortcut) ([]string, error)
	RemoveDynamic(ctx context.Context, ids []string) error
	RemoveLongLived(ctx context.Context, ids []string) error
	RemoveAllDynamic(ctx context.Context) error
	Ping(ctx context.Context) error
}

// KV is the byte store backing a KVInventory. Get returns nil, nil for a
// missing key.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

type inventoryEntry struct {
	Shortcut models.Shortcut `json:"shortcut"`
	Touched  int64           `json:"touched"`
}

type inventoryState struct {
	Seq       int64            `json:"seq"`
	Dynamic   []inventoryEntry `json:"dynamic"`
	LongLived []string         `json:"long_lived"`
}

// KVInventory keeps the whole inventory as one JSON document in a KV store.
// Publishing beyond the capacity evicts the lowest-priority shortcut: highest
// rank first, then the least recently touched.
type KVInventory struct {
	mu  sync.Mutex
	kv  KV
	key string
	max int
}

// NewKVInventory creates an inventory stored under key in kv.
func NewKVInventory(kv KV, key string, max int) *KVInventory {
	if max <= 0 {
		max = DefaultMaxShortcuts
	}
	return &KVInventory{kv: kv, key: key, max: max}
}

// NewMemoryInventory creates an inventory held in process memory.
func NewMemoryInventory(max int) *KVInventory {
	return NewKVInventory(newMemoryKV(), "shortcuts", max)
}

// NewRedisInventory creates an inventory stored in Redis at url.
func NewRedisInventory(url string, max int) *KVInventory {
	store := redis.New(redis.Config{URL: url})
	return NewKVInventory(store, "msgcore:shortcuts", max)
}

func (inv *KVInventory) load() (*inventoryState, error) {
	data, err := inv.kv.Get(inv.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	state := &inventoryState{}
	if len(data) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return state, nil
}

func (inv *KVInventory) save(state *inventoryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := inv.kv.Set(inv.key, data, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	return nil
}

func (inv *KVInventory) mutate(fn func(state *inventoryState) bool) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	state, err := inv.load()
	if err != nil {
		return err
	}
	if !fn(state) {
		return nil
	}
	return inv.save(state)
}

// Dynamic returns the published shortcuts, best rank first and most recently
// touched first within a rank.
func (inv *KVInventory) Dynamic(ctx context.Context) ([]models.Shortcut, error) {
	inv.mu.Lock()
	state, err := inv.load()
	inv.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entries := append([]inventoryEntry(nil), state.Dynamic...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Shortcut.Rank != entries[j].Shortcut.Rank {
			return entries[i].Shortcut.Rank < entries[j].Shortcut.Rank
		}
		return entries[i].Touched > entries[j].Touched
	})

	out := make([]models.Shortcut, len(entries))
	for i, e := range entries {
		out[i] = e.Shortcut
	}
	return out, nil
}

// Push publishes s, evicting the lowest ranked shortcuts past the cap.
func (inv *KVInventory) Push(ctx context.Context, s models.Shortcut) error {
	return inv.mutate(func(state *inventoryState) bool {
		state.Seq++
		if i := state.indexOf(s.ID); i >= 0 {
			state.Dynamic[i] = inventoryEntry{Shortcut: s, Touched: state.Seq}
		} else {
			state.Dynamic = append(state.Dynamic, inventoryEntry{Shortcut: s, Touched: state.Seq})
		}
		if s.IsLongLived {
			state.retain(s.ID)
		}
		for len(state.Dynamic) > inv.max {
			state.evictExcept(s.ID)
		}
		return true
	})
}

// Update refreshes the published shortcuts among shortcuts and returns their IDs.
func (inv *KVInventory) Update(ctx context.Context, shortcuts []models.Shortcut) ([]string, error) {
	var applied []string
	err := inv.mutate(func(state *inventoryState) bool {
		applied = applied[:0]
		for _, s := range shortcuts {
			i := state.indexOf(s.ID)
			if i < 0 {
				continue
			}
			state.Seq++
			state.Dynamic[i] = inventoryEntry{Shortcut: s, Touched: state.Seq}
			if s.IsLongLived {
				state.retain(s.ID)
			}
			applied = append(applied, s.ID)
		}
		return len(applied) > 0
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// RemoveDynamic unpublishes the shortcuts with the given IDs.
func (inv *KVInventory) RemoveDynamic(ctx context.Context, ids []string) error {
	return inv.mutate(func(state *inventoryState) bool {
		remove := toSet(ids)
		kept := state.Dynamic[:0]
		for _, e := range state.Dynamic {
			if _, ok := remove[e.Shortcut.ID]; !ok {
				kept = append(kept, e)
			}
		}
		changed := len(kept) != len(state.Dynamic)
		state.Dynamic = kept
		return changed
	})
}

// RemoveLongLived releases the given IDs from long-lived retention.
func (inv *KVInventory) RemoveLongLived(ctx context.Context, ids []string) error {
	return inv.mutate(func(state *inventoryState) bool {
		remove := toSet(ids)
		kept := state.LongLived[:0]
		for _, id := range state.LongLived {
			if _, ok := remove[id]; !ok {
				kept = append(kept, id)
			}
		}
		changed := len(kept) != len(state.LongLived)
		state.LongLived = kept
		return changed
	})
}

// RemoveAllDynamic unpublishes every dynamic shortcut.
func (inv *KVInventory) RemoveAllDynamic(ctx context.Context) error {
	return inv.mutate(func(state *inventoryState) bool {
		if len(state.Dynamic) == 0 {
			return false
		}
		state.Dynamic = nil
		return true
	})
}

// LongLived returns the IDs the platform retains beyond dynamic removal.
func (inv *KVInventory) LongLived(ctx context.Context) ([]string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	state, err := inv.load()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), state.LongLived...), nil
}

// Ping checks the backing store answers.
func (inv *KVInventory) Ping(ctx context.Context) error {
	_, err := inv.kv.Get(inv.key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	return nil
}

// Close releases the backing store when it holds connections.
func (inv *KVInventory) Close() error {
	if c, ok := inv.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *inventoryState) indexOf(id string) int {
	for i, e := range s.Dynamic {
		if e.Shortcut.ID == id {
			return i
		}
	}
	return -1
}

func (s *inventoryState) retain(id string) {
	for _, existing := range s.LongLived {
		if existing == id {
			return
		}
	}
	s.LongLived = append(s.LongLived, id)
}

// evictExcept drops the lowest-priority entry other than keep.
func (s *inventoryState) evictExcept(keep string) {
	victim := -1
	for i, e := range s.Dynamic {
		if e.Shortcut.ID == keep {
			continue
		}
		if victim < 0 {
			victim = i
			continue
		}
		v := s.Dynamic[victim]
		if e.Shortcut.Rank > v.Shortcut.Rank ||
			(e.Shortcut.Rank == v.Shortcut.Rank && e.Touched < v.Touched) {
			victim = i
		}
	}
	if victim < 0 {
		return
	}
	s.Dynamic = append(s.Dynamic[:victim], s.Dynamic[victim+1:]...)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// memoryKV is a map-backed KV. Expiry is not supported.
type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *memoryKV) Set(key string, val []byte, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
