// Package filesystem implements driven.Vault over a directory of notes.
//
// Note IDs are slash-separated paths relative to the vault root. Any path
// that resolves outside the root is rejected with domain.ErrOutsideVault.
// Tags are merged into the YAML frontmatter "tags" list, keeping every
// other frontmatter key and its order. Related links are appended as a
// "## Related" section of wiki links.
package filesystem
