// ABOUTME: Conversation session manager - owns the conversation set and active pointer
// ABOUTME: All mutations write through to the slot store; id changes update the navigation binding

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rentnav/rentnav/internal/nav"
	"github.com/rentnav/rentnav/internal/store"
)

// PlaceholderTitle is used until a conversation has its first user message.
const PlaceholderTitle = "New Chat"

// ErrorNotice is the fixed assistant message shown when the remote call
// fails for any reason. The conversation stays usable.
const ErrorNotice = "Sorry, I couldn't reach the assistant just now. Please try sending your message again."

// titleLimit is how many leading characters of the first user message
// become the conversation title.
const titleLimit = 30

// AnswerClient is what the manager needs from the query service.
type AnswerClient interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Manager owns the in-memory conversation set, the active-thread pointer,
// and the message pipeline. Every mutation writes the full snapshot
// through to the slot store; operations that change which conversation is
// addressed also update the navigation binding.
//
// Presentation adapters never mutate state directly; they call these
// operations and render what Get/List return.
type Manager struct {
	mu     sync.Mutex
	snap   *store.Snapshot
	active string

	store  store.SlotStore
	client AnswerClient
	logger *slog.Logger
}

// New creates a manager. Mount must be called before any other operation.
func New(slots store.SlotStore, client AnswerClient, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		snap:   store.NewSnapshot(),
		store:  slots,
		client: client,
		logger: logger.With("component", "session"),
	}
}

// Mount runs the startup reconciliation once per session mount: load the
// persisted snapshot, consume the navigation parameters, and resolve the
// initial active conversation. Resolution order, first match wins:
//
//  1. seed prompt present: create a conversation seeded with it, replace
//     the address, and answer the seed immediately
//  2. target id present and known: activate it
//  3. store non-empty: activate the first conversation by insertion order
//  4. otherwise: start a fresh empty conversation
//
// Programmatic resolution uses Replace so back-navigation never returns
// to a seed-prompt or unresolved address.
func (m *Manager) Mount(ctx context.Context, params nav.Params, binding nav.Binding) {
	m.mu.Lock()
	m.snap = m.store.Load(ctx)

	var seedText string
	modified := false

	switch {
	case params.SeedPrompt != "":
		conv := &store.Conversation{
			ID:    uuid.New().String(),
			Title: deriveTitle(params.SeedPrompt),
			Messages: []store.Message{{
				ID:   uuid.New().String(),
				Role: store.RoleUser,
				Text: params.SeedPrompt,
			}},
		}
		m.snap.Put(conv)
		m.active = conv.ID
		binding.Replace(conv.ID)
		seedText = params.SeedPrompt
		modified = true
		m.logger.Info("seeded conversation from prompt", "conversation_id", conv.ID)

	case params.TargetID != "" && m.exists(params.TargetID):
		m.active = params.TargetID
		m.logger.Debug("resumed conversation from address", "conversation_id", params.TargetID)

	case m.snap.Len() > 0:
		first := m.snap.First()
		m.active = first.ID
		binding.Replace(first.ID)
		m.logger.Debug("activated first conversation", "conversation_id", first.ID)

	default:
		id := m.startNewLocked(ctx)
		binding.Replace(id)
		modified = false // startNewLocked already persisted
	}

	if modified {
		m.saveLocked(ctx)
	}
	active := m.active
	m.mu.Unlock()

	// The seeded conversation's lone message triggers the pipeline exactly
	// once. Send detects the pre-appended seed and will not duplicate it.
	if seedText != "" {
		m.Send(ctx, active, seedText)
	}
}

// StartNew creates an empty conversation with a placeholder title, makes
// it active, and pushes its id onto the navigation binding. It always
// succeeds and returns the new id.
func (m *Manager) StartNew(ctx context.Context, binding nav.Binding) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.startNewLocked(ctx)
	if binding != nil {
		binding.Push(id)
	}
	return id
}

// startNewLocked inserts a fresh empty conversation and persists.
// Must be called with mu held.
func (m *Manager) startNewLocked(ctx context.Context) string {
	conv := &store.Conversation{
		ID:    uuid.New().String(),
		Title: PlaceholderTitle,
	}
	m.snap.Put(conv)
	m.active = conv.ID
	m.saveLocked(ctx)
	m.logger.Info("started conversation", "conversation_id", conv.ID)
	return conv.ID
}

// SetActive points the session at an existing conversation. It does not
// touch the navigation binding; callers that change the address do so
// explicitly.
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.exists(id) {
		return store.ErrNotFound
	}
	m.active = id
	return nil
}

// Active returns the id of the currently active conversation, or "" during
// the transient pre-mount phase.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Get returns a copy of the conversation with the given id.
func (m *Manager) Get(id string) (*store.Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.snap.Get(id)
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// List returns copies of every conversation in insertion order.
func (m *Manager) List() []*store.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.snap.All()
	out := make([]*store.Conversation, 0, len(all))
	for _, c := range all {
		out = append(out, c.Clone())
	}
	return out
}

// Send appends a user message, persists it, queries the answer service,
// and appends the reply (or the fixed error notice on any failure).
// Within one conversation the user message is always persisted before the
// assistant message, regardless of remote latency.
//
// Sending empty text or targeting an unknown id is a no-op; callers are
// expected to pass ids sourced from the current snapshot, so no error
// channel is exposed.
func (m *Manager) Send(ctx context.Context, id, text string) {
	if text == "" {
		return
	}

	m.mu.Lock()
	conv, ok := m.snap.Get(id)
	if !ok {
		m.logger.Debug("send to unknown conversation ignored", "conversation_id", id)
		m.mu.Unlock()
		return
	}

	// The startup seed path pre-appends the user message; detect that
	// exact state and reuse it instead of duplicating.
	seeded := len(conv.Messages) == 1 &&
		conv.Messages[0].Role == store.RoleUser &&
		conv.Messages[0].Text == text
	if !seeded {
		conv.Messages = append(conv.Messages, store.Message{
			ID:   uuid.New().String(),
			Role: store.RoleUser,
			Text: text,
		})
	}

	// First message in the conversation settles the title
	if countRole(conv, store.RoleUser) == 1 && countRole(conv, store.RoleAssistant) == 0 {
		conv.Title = deriveTitle(conv.Messages[0].Text)
	}

	// Optimistic local commit, independent of the remote outcome
	m.saveLocked(ctx)
	m.mu.Unlock()

	reply, err := m.client.Ask(ctx, text)
	if err != nil {
		m.logger.Warn("answer request failed", "error", err, "conversation_id", id)
		reply = ErrorNotice
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The conversation may have been deleted while the request was in
	// flight. Drop the reply rather than resurrecting the id.
	conv, ok = m.snap.Get(id)
	if !ok {
		m.logger.Info("dropping reply for deleted conversation", "conversation_id", id)
		return
	}

	conv.Messages = append(conv.Messages, store.Message{
		ID:   uuid.New().String(),
		Role: store.RoleAssistant,
		Text: reply,
	})
	m.saveLocked(ctx)
}

// Rename replaces the title unconditionally. Empty titles are permitted;
// an unknown id is a no-op.
func (m *Manager) Rename(ctx context.Context, id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.snap.Get(id)
	if !ok {
		m.logger.Debug("rename of unknown conversation ignored", "conversation_id", id)
		return
	}
	conv.Title = title
	m.saveLocked(ctx)
}

// Delete removes the conversation. Deleting the active conversation
// activates the first remaining one (updating the binding), or starts a
// fresh conversation when none remain. Deleting an inactive conversation
// leaves the active pointer and address untouched.
func (m *Manager) Delete(ctx context.Context, id string, binding nav.Binding) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.snap.Delete(id) {
		m.logger.Debug("delete of unknown conversation ignored", "conversation_id", id)
		return
	}
	m.logger.Info("deleted conversation", "conversation_id", id)

	if m.active == id {
		if first := m.snap.First(); first != nil {
			m.active = first.ID
			if binding != nil {
				binding.Replace(first.ID)
			}
			m.saveLocked(ctx)
			return
		}
		newID := m.startNewLocked(ctx)
		if binding != nil {
			binding.Replace(newID)
		}
		return
	}
	m.saveLocked(ctx)
}

// exists reports whether id is a key of the snapshot. Must be called with
// mu held.
func (m *Manager) exists(id string) bool {
	_, ok := m.snap.Get(id)
	return ok
}

// saveLocked writes the current snapshot through to the slot store.
// Write failures are best-effort and logged. Must be called with mu held.
func (m *Manager) saveLocked(ctx context.Context) {
	if err := m.store.Save(ctx, m.snap); err != nil {
		m.logger.Error("failed to persist snapshot", "error", err)
	}
}

// deriveTitle returns the first 30 characters of the first user message.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit])
}

// countRole counts messages with the given role.
func countRole(c *store.Conversation, role string) int {
	n := 0
	for _, msg := range c.Messages {
		if msg.Role == role {
			n++
		}
	}
	return n
}
