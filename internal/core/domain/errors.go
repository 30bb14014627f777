package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInsufficientDocuments indicates fewer than two documents were
	// available, so no dendrogram can be built.
	ErrInsufficientDocuments = errors.New("insufficient documents to cluster")

	// ErrNoDocumentsIndexed indicates the embedding store holds no documents.
	ErrNoDocumentsIndexed = errors.New("no documents indexed")

	// ErrOracleFailed indicates a labeling call failed and the tag
	// synthesis run was aborted. No partial tag tree is produced.
	ErrOracleFailed = errors.New("labeling oracle failed")

	// ErrMalformedLabel indicates the oracle answered with nothing usable as a tag.
	ErrMalformedLabel = errors.New("malformed label")

	// ErrLLMUnavailable indicates the labeling oracle is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates embeddings of different lengths were mixed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrOutsideVault indicates a document path escapes the vault root.
	ErrOutsideVault = errors.New("path outside vault")
)
