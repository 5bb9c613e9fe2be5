// ABOUTME: Navigation binding between the session manager and the external address
// ABOUTME: Exposes startup parameters and replace/push primitives for address updates

package nav

// Query parameter names carried in the external address.
const (
	ParamSeedPrompt = "prompt"
	ParamTargetID   = "id"
)

// Params are the two optional startup parameters read from the external
// address, consumed once at session mount.
type Params struct {
	// SeedPrompt is an initial user query that should immediately start a
	// new conversation and be answered without further user action.
	SeedPrompt string

	// TargetID addresses an existing conversation to resume.
	TargetID string
}

// Binding lets the session manager update the externally visible address
// without a page reload. Replace and Push differ only in history
// semantics: programmatic resolution must not pollute history, while
// user-initiated navigation should create an entry to go back to.
type Binding interface {
	// Replace changes the current address to reference id without creating
	// a new history entry.
	Replace(id string)

	// Push changes the address to reference id, creating a new history
	// entry.
	Push(id string)
}
