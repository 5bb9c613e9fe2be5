// Package store provides the conversation data model and its persistence.
//
// The whole conversation set is serialized as a single JSON object keyed by
// conversation id and written to one durable key-value slot. The store has
// no business rules: it serializes and deserializes on command, and the
// session manager owns the in-memory state between writes.
//
// Two SlotStore implementations exist:
//
//   - SQLiteStore: single-file SQLite database with WAL mode
//   - MemoryStore: in-memory, for tests (keeps the real codec path)
//
// Load never fails visibly; absent or corrupt slot data yields an empty
// Snapshot. Save is best-effort and removes the slot entirely when the
// snapshot is empty.
package store
