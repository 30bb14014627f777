// Package domain defines the core business entities for vaultag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A vault note held in the embedding store
//   - ClusterNode: A node of the agglomerative clustering dendrogram
//   - TagNode: A node of the synthesized tag tree
//   - TagAssignment: The tag(s) projected onto one document
//   - LinkResult: Related documents found for a query note
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
