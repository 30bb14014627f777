// Package sqlite provides the default embedding store, backed by SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Documents are grouped into named
// collections; each row keeps the content, JSON metadata and the embedding as
// a little-endian float32 blob.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Nearest neighbours
//
// Queries are answered by a brute-force scan of the collection using the
// configured distance space. This is exact, and fast enough for a personal
// vault of a few thousand notes.
//
// # Data Location
//
// By default, the database is stored at ~/.vaultag/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
