package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps definitions in memory.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	seq    int
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{defs: make(map[string]Definition)}
}

// Save implements Store.
func (m *MemoryStore) Save(name, source string) (Definition, error) {
	level, err := validate(name, source)
	if err != nil {
		return Definition{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Definition{}, ErrStoreClosed
	}

	now := time.Now().UTC()
	d, ok := m.defs[name]
	if !ok {
		m.seq++
		d = Definition{
			ID:       uuid.New(),
			Name:     name,
			Sequence: m.seq,
			Created:  now,
		}
	}
	d.Source = source
	d.Level = level
	d.Updated = now
	m.defs[name] = d
	return d, nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Definition{}, ErrStoreClosed
	}
	d, ok := m.defs[name]
	if !ok {
		return Definition{}, ErrNotFound
	}
	return d, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	defs := make([]Definition, 0, len(m.defs))
	for _, d := range m.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Sequence < defs[j].Sequence
	})
	return defs, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.defs, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.defs = nil
	return nil
}

// Len returns the number of stored definitions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.defs)
}
