// Package session is the core of the assistant surface: it owns the set
// of conversation threads, decides which thread is active, reconciles
// thread identity with the external address at mount time, and drives the
// message-exchange pipeline (optimistic local append, remote call,
// response or failure reconciliation).
//
// All state transitions are serialized by the manager's mutex; the only
// asynchronous boundary is the remote answer call, during which the user
// message is already persisted and visible. No failure in this package is
// fatal to the session - the worst outcome is a placeholder reply.
package session
