package keywords

import (
	"context"
	"sync"
)

// Config is the configuration store that persists the blocked keyword list
// and the last export path hint.
type Config interface {
	BlockedKeywords(ctx context.Context) ([]string, error)
	SetBlockedKeywords(ctx context.Context, keywords []string) error
	LastBlockedKeywordExportPath(ctx context.Context) (string, error)
	SetLastBlockedKeywordExportPath(ctx context.Context, path string) error
}

// MemoryConfig keeps the configuration in process memory.
type MemoryConfig struct {
	mu         sync.RWMutex
	keywords   []string
	exportPath string
}

// NewMemoryConfig creates an in-memory configuration seeded with keywords.
func NewMemoryConfig(keywords ...string) *MemoryConfig {
	return &MemoryConfig{keywords: append([]string(nil), keywords...)}
}

// BlockedKeywords returns a copy of the stored keywords.
func (m *MemoryConfig) BlockedKeywords(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.keywords...), nil
}

// SetBlockedKeywords replaces the stored keywords with a copy of keywords.
func (m *MemoryConfig) SetBlockedKeywords(ctx context.Context, keywords []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = append([]string(nil), keywords...)
	return nil
}

// LastBlockedKeywordExportPath returns the remembered export path.
func (m *MemoryConfig) LastBlockedKeywordExportPath(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exportPath, nil
}

// SetLastBlockedKeywordExportPath remembers path as the export path.
func (m *MemoryConfig) SetLastBlockedKeywordExportPath(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportPath = path
	return nil
}
