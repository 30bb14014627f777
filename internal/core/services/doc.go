// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The tag pipeline runs leaf first: ClusterTreeBuilder turns a clustering
// merge sequence into a dendrogram, TagSynthesizer labels it bottom-up
// through the labeling oracle, and IndexTagProjector flattens the tag tree
// into per-document tags. NeighborLinkFinder answers related-note queries
// against the same embedding store.
//
// Services are pure Go with no CGO or external dependencies.
package services
