package domain

// DefaultLinkMetadataType is the metadata type recorded for notes upserted
// during link discovery.
const DefaultLinkMetadataType = "md"

// SelfDistanceEpsilon is the distance at or below which a neighbour is
// treated as the query document itself.
const SelfDistanceEpsilon = 1e-9

// LinkRequest asks for notes related to one note.
type LinkRequest struct {
	// Path is the vault-relative path and document ID. Required.
	Path string `json:"path"`

	// Name is the note's display name.
	Name string `json:"name,omitempty"`

	// Content is the current note text.
	Content string `json:"content"`
}

// LinkResult holds the filtered neighbours, one row per query vector.
type LinkResult = QueryResult
