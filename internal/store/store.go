// ABOUTME: Data model and SlotStore interface for conversation persistence
// ABOUTME: Defines Conversation, Message and the key-value slot contract

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Message roles. A conversation only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single exchanged message. Messages are immutable once
// appended; the ID is generated at append time and is unique within the
// owning conversation.
type Message struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// Conversation is an ordered, independently addressable message thread.
// Messages are append-only; insertion order is chronological order.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Clone returns a deep copy so callers can hand conversations to the
// presentation layer without exposing the manager's internal state.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// SlotStore persists the whole conversation snapshot into a single durable
// key-value slot. It serializes and deserializes on command only; it holds
// no business rules and no independent lifecycle.
type SlotStore interface {
	// Load reads the persisted snapshot. It never fails visibly: absent or
	// unparsable data yields an empty snapshot.
	Load(ctx context.Context) *Snapshot

	// Save writes the entire snapshot, replacing whatever was stored.
	// An empty snapshot removes the slot entirely instead of writing an
	// empty structure.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
