// Package qdrant provides an embedding store backed by a Qdrant server
// reached over gRPC.
//
// Each document becomes one point. The point ID is a name-based UUID of the
// document ID, so re-upserting a document overwrites its point. The payload
// carries the document ID, content, metadata and insertion position.
//
// Qdrant scores are converted to distances in the configured space: squared
// Euclidean for l2, 1 - similarity for cosine and 1 - dot product for ip.
package qdrant
