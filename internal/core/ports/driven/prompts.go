package driven

// PromptStore provides access to labeling prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names fall back to a built-in default when one exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptTagSystem is the system prompt sent with every labeling call.
	// This prompt has no format placeholders.
	PromptTagSystem = "tag_system"

	// PromptLeafTag asks for one tag for one note.
	// The template expects %s (note identifier) and %s (content).
	PromptLeafTag = "leaf_tag"

	// PromptParentTag asks for one parent tag generalising child tags.
	// The template expects %s (JSON list of child tags).
	PromptParentTag = "parent_tag"
)

// PromptStoreAware is an optional interface for oracles that take a
// system prompt from the prompt store.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	SetPromptStore(store PromptStore)
}
