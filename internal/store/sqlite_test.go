// ABOUTME: Tests for the SQLite SlotStore implementation
// ABOUTME: Verifies load/save round-trips, corruption recovery, and empty-slot removal

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath, "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_LoadEmptyDatabase(t *testing.T) {
	s := createTestStore(t)

	snap := s.Load(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Len())
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	snap := NewSnapshot()
	snap.Put(&Conversation{
		ID:    "c1",
		Title: "Downtown search",
		Messages: []Message{
			{ID: "m1", Role: RoleUser, Text: "Looking for a 2BHK near downtown"},
			{ID: "m2", Role: RoleAssistant, Text: "Here are some options"},
		},
	})
	snap.Put(&Conversation{ID: "c2", Title: "New Chat"})

	require.NoError(t, s.Save(ctx, snap))

	loaded := s.Load(ctx)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "c1", loaded.First().ID)

	c, ok := loaded.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Downtown search", c.Title)
	require.Len(t, c.Messages, 2)
	assert.Equal(t, RoleAssistant, c.Messages[1].Role)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := NewSnapshot()
	first.Put(&Conversation{ID: "a", Title: "old"})
	require.NoError(t, s.Save(ctx, first))

	second := NewSnapshot()
	second.Put(&Conversation{ID: "a", Title: "new"})
	second.Put(&Conversation{ID: "b"})
	require.NoError(t, s.Save(ctx, second))

	loaded := s.Load(ctx)
	require.Equal(t, 2, loaded.Len())
	c, _ := loaded.Get("a")
	assert.Equal(t, "new", c.Title)
}

func TestSQLiteStore_EmptySnapshotRemovesSlot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	snap := NewSnapshot()
	snap.Put(&Conversation{ID: "a"})
	require.NoError(t, s.Save(ctx, snap))

	require.NoError(t, s.Save(ctx, NewSnapshot()))

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM slots").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "slot row should be removed, not emptied")

	loaded := s.Load(ctx)
	assert.Equal(t, 0, loaded.Len())
}

func TestSQLiteStore_CorruptSlotYieldsEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(
		"INSERT INTO slots (key, value, updated_at) VALUES (?, ?, datetime('now'))",
		DefaultSlotKey, "{not json")
	require.NoError(t, err)

	snap := s.Load(ctx)
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Len())
}

func TestSQLiteStore_SeparateSlotKeys(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	a, err := NewSQLiteStore(dbPath, "slot-a")
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	snap := NewSnapshot()
	snap.Put(&Conversation{ID: "only-in-a"})
	require.NoError(t, a.Save(ctx, snap))

	b, err := NewSQLiteStore(dbPath, "slot-b")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 0, b.Load(ctx).Len())
	assert.Equal(t, 1, a.Load(ctx).Len())
}
