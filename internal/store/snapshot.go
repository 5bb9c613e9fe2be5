// ABOUTME: Snapshot is the ordered id->Conversation mapping owned by the session manager
// ABOUTME: JSON codec keeps key order stable so "first conversation" is well-defined

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot holds every conversation keyed by id, preserving insertion
// order. The zero value is not usable; call NewSnapshot.
type Snapshot struct {
	order []string
	byID  map[string]*Conversation
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{byID: make(map[string]*Conversation)}
}

// Len returns the number of conversations.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Get returns the conversation with the given id.
func (s *Snapshot) Get(id string) (*Conversation, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Put inserts the conversation, or replaces it if the id already exists.
// New ids are appended, so insertion order survives round-trips.
func (s *Snapshot) Put(c *Conversation) {
	if _, exists := s.byID[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = c
}

// Delete removes the conversation with the given id. Returns false if the
// id was not present.
func (s *Snapshot) Delete(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// First returns the oldest conversation by insertion order, or nil if the
// snapshot is empty.
func (s *Snapshot) First() *Conversation {
	if len(s.order) == 0 {
		return nil
	}
	return s.byID[s.order[0]]
}

// All returns every conversation in insertion order.
func (s *Snapshot) All() []*Conversation {
	out := make([]*Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// MarshalJSON encodes the snapshot as a single JSON object keyed by
// conversation id, keys in insertion order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.byID[id])
		if err != nil {
			return nil, fmt.Errorf("encoding conversation %s: %w", id, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keyed by conversation id, preserving
// the key order found in the document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	s.order = nil
	s.byID = make(map[string]*Conversation)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}

		var conv Conversation
		if err := dec.Decode(&conv); err != nil {
			return fmt.Errorf("decoding conversation %s: %w", key, err)
		}
		if conv.ID == "" {
			conv.ID = key
		}
		s.Put(&conv)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
