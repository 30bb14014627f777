package driven

import "context"

// Diagnostic artifact names written during a run.
const (
	ArtifactTree      = "tree.json"
	ArtifactTreeIDMap = "tree_id_map.json"
	ArtifactTagTree   = "tag_tree.json"
	ArtifactIndexTags = "index_tag_maps.json"
	ArtifactIDTags    = "ids_tags_maps.json"
	ArtifactLinkQuery = "query.json"
)

// ArtifactStore persists diagnostic snapshots. They are never read back
// by the pipeline.
type ArtifactStore interface {
	// NewRun allocates an identifier for a new run.
	NewRun() string

	// Write serializes v under name for the given run.
	Write(ctx context.Context, runID, name string, v any) error
}
