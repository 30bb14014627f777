package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/vectors"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a SQLite-backed embedding store.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
	space    domain.DistanceSpace
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.vaultag/data/index.db.
func NewStore(dataDir string, embedder driven.EmbeddingService, space domain.DistanceSpace) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vaultag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if !space.IsValid() {
		space = domain.DistanceL2
	}
	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
		space:    space,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ListAll returns every document in the collection in insertion order.
func (s *Store) ListAll(ctx context.Context, collection string) (*domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, embedding
		FROM documents WHERE collection = ?
		ORDER BY position
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	snap := &domain.Snapshot{
		IDs:        []string{},
		Documents:  []string{},
		Embeddings: [][]float32{},
		Metadatas:  []map[string]any{},
	}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		snap.IDs = append(snap.IDs, doc.ID)
		snap.Documents = append(snap.Documents, doc.Content)
		snap.Embeddings = append(snap.Embeddings, doc.Embedding)
		snap.Metadatas = append(snap.Metadatas, doc.Metadata)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return snap, nil
}

// Upsert embeds docs and stores them, replacing documents with the same ID.
// A replaced document keeps its position in the collection.
func (s *Store) Upsert(ctx context.Context, collection string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embed documents: got %d embeddings for %d documents", len(embeddings), len(docs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING", collection); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM documents WHERE collection = ?", collection,
	).Scan(&next); err != nil {
		return fmt.Errorf("reading next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, position, content, metadata, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, collection, doc.ID, next+i, doc.Content,
			string(metadataJSON), float32SliceToBytes(embeddings[i]), now); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get returns the documents with the given IDs in request order.
// Unknown IDs are skipped.
func (s *Store) Get(ctx context.Context, collection string, ids []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, content, metadata, embedding, updated_at
			FROM documents WHERE collection = ? AND id = ?
		`, collection, id)

		doc, err := scanDocumentRow(row)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// QueryNearest scans the collection and returns the n nearest documents
// for each query vector.
func (s *Store) QueryNearest(
	ctx context.Context,
	collection string,
	queries [][]float32,
	n int,
) (*domain.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, embedding FROM documents
		WHERE collection = ? ORDER BY position
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var candidates []vectors.Candidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		candidates = append(candidates, vectors.Candidate{ID: id, Vector: bytesToFloat32Slice(blob)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	return vectors.Nearest(s.space, candidates, queries, n)
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?", collection,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Collections lists the collection names.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteCollection removes a collection and all its documents.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanDocument scans an id, content, metadata, embedding row.
func scanDocument(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := decodeDocument(&doc, metadataJSON, embeddingBlob); err != nil {
		return nil, err
	}
	return &doc, nil
}

// scanDocumentRow scans a single document row including its update time.
func scanDocumentRow(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	var embeddingBlob []byte

	if err := row.Scan(&doc.ID, &doc.Content, &metadataJSON, &embeddingBlob, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := decodeDocument(&doc, metadataJSON, embeddingBlob); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeDocument(doc *domain.Document, metadataJSON string, embeddingBlob []byte) error {
	doc.Embedding = bytesToFloat32Slice(embeddingBlob)
	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return nil
}
