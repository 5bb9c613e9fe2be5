// ABOUTME: In-memory address history implementing the Binding interface
// ABOUTME: Models a browser-style history stack with replace/push semantics

package nav

import "sync"

// History is an in-memory Binding backed by a history stack. The web
// layer uses per-request recorders instead; History backs tests and any
// surface that owns its own address state.
type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

// NewHistory creates a history with a single initial address.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}, pos: 0}
}

// Current returns the address at the current history position.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Replace overwrites the current entry without growing the stack.
func (h *History) Replace(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = id
}

// Push drops any forward entries and appends a new one.
func (h *History) Push(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.pos+1], id)
	h.pos = len(h.entries) - 1
}

// Back moves one entry backwards, returning the new current address.
// At the oldest entry it stays put.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos]
}

// Len returns the number of entries in the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
