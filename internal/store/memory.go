// ABOUTME: In-memory SlotStore implementation for testing
// ABOUTME: Allows tests to run without SQLite while keeping real serialization

package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// MemoryStore is an in-memory SlotStore for tests. It keeps the raw
// serialized bytes, so tests exercise the same codec path as SQLite.
type MemoryStore struct {
	mu   sync.Mutex
	raw  []byte
	logs *slog.Logger

	// SaveErr, when set, is returned from Save to simulate write failures.
	SaveErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: slog.Default().With("component", "store")}
}

// Load deserializes the stored bytes, falling back to an empty snapshot on
// absent or corrupt data.
func (m *MemoryStore) Load(ctx context.Context) *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.raw) == 0 {
		return NewSnapshot()
	}
	snap := NewSnapshot()
	if err := json.Unmarshal(m.raw, snap); err != nil {
		m.logs.Warn("corrupt slot data, starting empty", "error", err)
		return NewSnapshot()
	}
	return snap
}

// Save serializes the snapshot. An empty snapshot clears the slot.
func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	if snap == nil || snap.Len() == 0 {
		m.raw = nil
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// Raw returns the stored bytes, nil when the slot is empty. Test helper.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}

// SetRaw overwrites the stored bytes directly. Test helper for corrupt or
// pre-seeded slot contents.
func (m *MemoryStore) SetRaw(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = raw
}
