package driven

import "context"

// Vault reads and writes notes by vault-relative path.
type Vault interface {
	// Root returns the absolute vault directory.
	Root() string

	// Read returns the note content at path.
	Read(ctx context.Context, path string) (string, error)

	// List returns the vault-relative paths of all notes with the given
	// extensions (without dots).
	List(ctx context.Context, extensions ...string) ([]string, error)

	// ApplyTags merges tags into the note's frontmatter tag list.
	ApplyTags(ctx context.Context, path string, tags []string) error

	// AppendLinks appends wiki links to the note's related section,
	// skipping links already present.
	AppendLinks(ctx context.Context, path string, targets []string) error
}
