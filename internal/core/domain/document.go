package domain

import (
	"path"
	"strings"
	"time"
)

// MetadataType is the metadata key holding a document's file extension.
const MetadataType = "type"

// Document is a vault note as held by the embedding store.
// Re-upserting a document replaces content, embedding and metadata together.
type Document struct {
	// ID is the vault-relative path, unique within a collection.
	ID string

	// Content is the raw note text.
	Content string

	// Metadata contains small key-value pairs such as {"type": "md"}.
	Metadata map[string]any

	// Embedding is the vector for Content. Empty until the store embeds it.
	Embedding []float32

	// UpdatedAt is when the document was last upserted.
	UpdatedAt time.Time
}

// FileRef identifies a vault file to ingest, as sent by the vault plugin.
type FileRef struct {
	// Path is the vault-relative path and becomes the document ID.
	Path string `json:"path"`

	// Name is the file's base name.
	Name string `json:"name"`

	// Extension is the file extension without a dot.
	Extension string `json:"extension"`
}

// NewFileRef builds a FileRef from a slash-separated vault path.
func NewFileRef(p string) FileRef {
	base := path.Base(p)
	return FileRef{
		Path:      p,
		Name:      base,
		Extension: strings.TrimPrefix(path.Ext(base), "."),
	}
}

// Snapshot is a consistent read of a whole collection. The slices are
// parallel: position i in each describes the same document.
type Snapshot struct {
	IDs        []string         `json:"ids"`
	Documents  []string         `json:"documents"`
	Embeddings [][]float32      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.IDs)
}

// IndexIDMap returns the clustering index to document ID mapping for
// this snapshot. Index i is the i-th document in iteration order.
func (s *Snapshot) IndexIDMap() IndexIDMap {
	m := make(IndexIDMap, s.Len())
	copy(m, s.IDs)
	return m
}

// IndexIDMap maps a clustering index (0..n-1) to a document ID.
// It is only valid for the snapshot it was captured from.
type IndexIDMap []string

// QueryResult holds nearest-neighbour matches, one row per query vector.
type QueryResult struct {
	IDs       [][]string  `json:"ids"`
	Distances [][]float64 `json:"distances"`
}
