package qdrant

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	qpb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

// scrollPage is the number of points fetched per scroll request.
const scrollPage = 256

// pointNamespace derives point UUIDs from document IDs.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/vaultag/points"))

// Config holds the Qdrant connection settings.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// Store is a Qdrant-backed embedding store.
type Store struct {
	client      *qpb.Client
	points      qpb.PointsClient
	collections qpb.CollectionsClient
	embedder    driven.EmbeddingService
	space       domain.DistanceSpace
}

// NewStore connects to Qdrant. The connection is established lazily on
// the first request.
func NewStore(cfg Config, embedder driven.EmbeddingService, space domain.DistanceSpace) (*Store, error) {
	if cfg.Port == 0 {
		cfg.Port = domain.DefaultQdrantPort
	}
	qcfg := &qpb.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	}
	if !cfg.UseTLS {
		qcfg.GrpcOptions = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	client, err := qpb.NewClient(qcfg)
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	conn := client.GetConnection()
	s := newStore(qpb.NewPointsClient(conn), qpb.NewCollectionsClient(conn), embedder, space)
	s.client = client
	return s, nil
}

func newStore(
	points qpb.PointsClient,
	collections qpb.CollectionsClient,
	embedder driven.EmbeddingService,
	space domain.DistanceSpace,
) *Store {
	if !space.IsValid() {
		space = domain.DistanceL2
	}
	return &Store{
		points:      points,
		collections: collections,
		embedder:    embedder,
		space:       space,
	}
}

// PointID returns the point UUID used for a document ID.
func PointID(docID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(docID)).String()
}

func (s *Store) distance() qpb.Distance {
	switch s.space {
	case domain.DistanceCosine:
		return qpb.Distance_Cosine
	case domain.DistanceIP:
		return qpb.Distance_Dot
	default:
		return qpb.Distance_Euclid
	}
}

// toDistance converts a Qdrant score into a distance in the store's space.
func (s *Store) toDistance(score float32) float64 {
	switch s.space {
	case domain.DistanceCosine, domain.DistanceIP:
		return 1 - float64(score)
	default:
		return math.Pow(float64(score), 2)
	}
}

func (s *Store) exists(ctx context.Context, collection string) (bool, error) {
	resp, err := s.collections.CollectionExists(ctx, &qpb.CollectionExistsRequest{CollectionName: collection})
	if err != nil {
		return false, fmt.Errorf("check collection %s: %w", collection, err)
	}
	return resp.GetResult().GetExists(), nil
}

func (s *Store) ensureCollection(ctx context.Context, collection string, dims int) error {
	ok, err := s.exists(ctx, collection)
	if err != nil || ok {
		return err
	}
	logger.Info("creating qdrant collection %s (%d dimensions)", collection, dims)
	_, err = s.collections.Create(ctx, &qpb.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &qpb.VectorsConfig{Config: &qpb.VectorsConfig_Params{
			Params: &qpb.VectorParams{
				Size:     uint64(dims),
				Distance: s.distance(),
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	return nil
}

// ListAll scrolls through the collection and returns documents in
// insertion order.
func (s *Store) ListAll(ctx context.Context, collection string) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		IDs:        []string{},
		Documents:  []string{},
		Embeddings: [][]float32{},
		Metadatas:  []map[string]any{},
	}
	ok, err := s.exists(ctx, collection)
	if err != nil || !ok {
		return snap, err
	}

	var all []storedPoint
	var offset *qpb.PointId
	limit := uint32(scrollPage)
	for {
		resp, err := s.points.Scroll(ctx, &qpb.ScrollPoints{
			CollectionName: collection,
			Offset:         offset,
			Limit:          &limit,
			WithPayload:    qpb.NewWithPayload(true),
			WithVectors:    qpb.NewWithVectors(true),
		})
		if err != nil {
			return nil, fmt.Errorf("scroll %s: %w", collection, err)
		}
		for _, p := range resp.GetResult() {
			all = append(all, decodePoint(p.GetPayload(), p.GetVectors().GetVector().GetData()))
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	sortByPosition(all)
	for _, p := range all {
		snap.IDs = append(snap.IDs, p.id)
		snap.Documents = append(snap.Documents, p.content)
		snap.Embeddings = append(snap.Embeddings, p.vector)
		snap.Metadatas = append(snap.Metadatas, p.metadata)
	}
	return snap, nil
}

// Upsert embeds docs and writes them as points. The collection is created
// on first write with the embedding dimension.
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

	if err := s.ensureCollection(ctx, collection, len(embeddings[0])); err != nil {
		return err
	}

	positions, next, err := s.positions(ctx, collection, docs)
	if err != nil {
		return err
	}

	points := make([]*qpb.PointStruct, len(docs))
	for i, d := range docs {
		pos, ok := positions[d.ID]
		if !ok {
			pos = next
			positions[d.ID] = pos
			next++
		}
		payload := map[string]*qpb.Value{
			payloadID:       toValue(d.ID),
			payloadContent:  toValue(d.Content),
			payloadMetadata: toValue(d.Metadata),
			payloadPosition: toValue(pos),
		}
		points[i] = &qpb.PointStruct{
			Id:      qpb.NewIDUUID(PointID(d.ID)),
			Vectors: qpb.NewVectors(embeddings[i]...),
			Payload: payload,
		}
	}

	wait := true
	if _, err := s.points.Upsert(ctx, &qpb.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// positions returns the stored positions of docs that already exist and
// the next free position.
func (s *Store) positions(ctx context.Context, collection string, docs []domain.Document) (map[string]int64, int64, error) {
	count, err := s.Count(ctx, collection)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]*qpb.PointId, len(docs))
	for i, d := range docs {
		ids[i] = qpb.NewIDUUID(PointID(d.ID))
	}
	resp, err := s.points.Get(ctx, &qpb.GetPoints{
		CollectionName: collection,
		Ids:            ids,
		WithPayload:    qpb.NewWithPayloadInclude(payloadID, payloadPosition),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get points: %w", err)
	}

	positions := make(map[string]int64)
	next := int64(count)
	for _, p := range resp.GetResult() {
		sp := decodePoint(p.GetPayload(), nil)
		positions[sp.id] = sp.position
		if sp.position >= next {
			next = sp.position + 1
		}
	}
	return positions, next, nil
}

// Get returns the documents with the given IDs in request order.
func (s *Store) Get(ctx context.Context, collection string, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ok, err := s.exists(ctx, collection)
	if err != nil || !ok {
		return nil, err
	}

	pointIDs := make([]*qpb.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qpb.NewIDUUID(PointID(id))
	}
	resp, err := s.points.Get(ctx, &qpb.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
		WithPayload:    qpb.NewWithPayload(true),
		WithVectors:    qpb.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}

	byID := make(map[string]storedPoint, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		sp := decodePoint(p.GetPayload(), p.GetVectors().GetVector().GetData())
		byID[sp.id] = sp
	}
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		sp, ok := byID[id]
		if !ok {
			continue
		}
		docs = append(docs, domain.Document{
			ID:        sp.id,
			Content:   sp.content,
			Metadata:  sp.metadata,
			Embedding: sp.vector,
		})
	}
	return docs, nil
}

// QueryNearest runs one batched search with a request per query vector.
func (s *Store) QueryNearest(
	ctx context.Context,
	collection string,
	queries [][]float32,
	n int,
) (*domain.QueryResult, error) {
	result := &domain.QueryResult{
		IDs:       make([][]string, len(queries)),
		Distances: make([][]float64, len(queries)),
	}
	for i := range queries {
		result.IDs[i] = []string{}
		result.Distances[i] = []float64{}
	}
	if len(queries) == 0 {
		return result, nil
	}
	ok, err := s.exists(ctx, collection)
	if err != nil || !ok {
		return result, err
	}
	if n <= 0 {
		n = domain.DefaultNeighbours
	}

	searches := make([]*qpb.SearchPoints, len(queries))
	for i, q := range queries {
		searches[i] = &qpb.SearchPoints{
			CollectionName: collection,
			Vector:         q,
			Limit:          uint64(n),
			WithPayload:    qpb.NewWithPayloadInclude(payloadID),
		}
	}
	resp, err := s.points.SearchBatch(ctx, &qpb.SearchBatchPoints{
		CollectionName: collection,
		SearchPoints:   searches,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	for i, batch := range resp.GetResult() {
		if i >= len(queries) {
			break
		}
		for _, hit := range batch.GetResult() {
			result.IDs[i] = append(result.IDs[i], hit.GetPayload()[payloadID].GetStringValue())
			result.Distances[i] = append(result.Distances[i], s.toDistance(hit.GetScore()))
		}
	}
	return result, nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	ok, err := s.exists(ctx, collection)
	if err != nil || !ok {
		return 0, err
	}
	exact := true
	resp, err := s.points.Count(ctx, &qpb.CountPoints{
		CollectionName: collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
