// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/iwvelando/gold-scheme/internal/ledger"
)

// Memory keeps schemes in a map. It is safe for concurrent use and never
// shares state with its callers.
type Memory struct {
	mu      sync.RWMutex
	schemes map[string]ledger.Scheme
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		schemes: make(map[string]ledger.Scheme),
	}
}

// Save inserts or replaces a scheme.
func (m *Memory) Save(_ context.Context, scheme ledger.Scheme) error {
	if scheme.ID == "" {
		return fmt.Errorf("%w: missing id", ledger.ErrInvalidScheme)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemes[scheme.ID] = scheme.Clone()
	return nil
}

// Get returns a copy of the scheme or ledger.ErrSchemeNotFound.
func (m *Memory) Get(_ context.Context, id string) (ledger.Scheme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scheme, ok := m.schemes[id]
	if !ok {
		return ledger.Scheme{}, ledger.ErrSchemeNotFound
	}
	return scheme.Clone(), nil
}

// List returns copies of every scheme in no particular order.
func (m *Memory) List(_ context.Context) ([]ledger.Scheme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Scheme, 0, len(m.schemes))
	for _, s := range m.schemes {
		result = append(result, s.Clone())
	}
	return result, nil
}

// Len reports how many schemes are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.schemes)
}
