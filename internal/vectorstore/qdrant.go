// Package vectorstore provides the nearest-neighbor index for embedded
// chunks, backed by Qdrant over gRPC.
package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/bull/contract-rag/internal/domain"
)

// DefaultCollection is the collection all ingested chunks land in.
const DefaultCollection = "documents"

// VectorDimension must match the embedding model's output length.
const VectorDimension = 1536

// vectorName is the named vector chunks are stored and queried under.
const vectorName = "content"

// upsertBatchSize bounds the points per upsert request.
const upsertBatchSize = 100

// Index wraps the Qdrant client with connection management and health checks.
type Index struct {
	client *qdrant.Client
	host   string
	port   int
}

// NewIndex creates a Qdrant-backed index and validates connectivity, retrying
// the health check with exponential backoff before failing fast.
func NewIndex(host string, port int) (*Index, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	idx := &Index{client: client, host: host, port: port}

	if err := idx.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return idx, nil
}

func (x *Index) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return x.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check.
func (x *Index) Health(ctx context.Context) error {
	result, err := x.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the collection if it does not exist: one named
// cosine vector per chunk plus a keyword index on the source filename.
// Idempotent.
func (x *Index) EnsureCollection(ctx context.Context, collection string) error {
	collections, err := x.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == collection {
			return nil
		}
	}

	err = x.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			vectorName: {
				Size:     VectorDimension,
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// Source filename is the one field queries filter on.
	_, err = x.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      "source",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("create source index: %w", err)
	}
	return nil
}

// ClearCollection drops and recreates the collection.
func (x *Index) ClearCollection(ctx context.Context, collection string) error {
	if err := x.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return x.EnsureCollection(ctx, collection)
}

// Close closes the underlying gRPC connection.
func (x *Index) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}

// Upsert stores chunks with their embeddings in batches, retrying transient
// failures with exponential backoff. vectors[i] embeds chunks[i].
func (x *Index) Upsert(ctx context.Context, collection string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != VectorDimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(v), VectorDimension)
		}
	}

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(chunks))

		points := make([]*qdrant.PointStruct, 0, end-i)
		for j := i; j < end; j++ {
			points = append(points, &qdrant.PointStruct{
				Id: qdrant.NewIDUUID(uuid.New().String()),
				Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
					vectorName: qdrant.NewVector(vectors[j]...),
				}),
				Payload: qdrant.NewValueMap(chunkPayload(chunks[j])),
			})
		}

		if err := x.upsertWithRetry(ctx, collection, points); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func (x *Index) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// chunkPayload flattens a chunk and its owning document's metadata into the
// point payload returned verbatim by Search.
func chunkPayload(c domain.Chunk) map[string]any {
	return map[string]any{
		"content":        c.Text,
		"page":           c.Page,
		"source":         c.Document.Source,
		"ingestion_date": c.Document.IngestionDate,
		"file_size_kb":   c.Document.FileSizeKB,
		"author":         c.Document.Author,
		"creator":        c.Document.Creator,
		"creation_date":  c.Document.CreationDate,
		"total_pages":    c.Document.TotalPages,
	}
}

// Search runs a single nearest-neighbor lookup and returns matches ordered
// most-similar-first. Distance is 1 - cosine score. An empty result set is
// valid, not an error.
func (x *Index) Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.RetrievedDocument, error) {
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	name := vectorName
	results, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Using:          &name,
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", collection, err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(results))
	for _, result := range results {
		payload := result.Payload

		meta := make(map[string]any, len(payload))
		for key, value := range payload {
			if key == "content" {
				continue
			}
			meta[key] = payloadValue(value)
		}

		docs = append(docs, domain.RetrievedDocument{
			Content:  payload["content"].GetStringValue(),
			Metadata: meta,
			Distance: 1 - float64(result.Score),
		})
	}
	return docs, nil
}

// Count returns the number of points in the collection.
func (x *Index) Count(ctx context.Context, collection string) (uint64, error) {
	info, err := x.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("get collection %q: %w", collection, err)
	}
	return info.GetPointsCount(), nil
}

// payloadValue converts a qdrant payload value to a plain Go value.
func payloadValue(v *qdrant.Value) any {
	switch v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return v.GetStringValue()
	case *qdrant.Value_IntegerValue:
		return v.GetIntegerValue()
	case *qdrant.Value_DoubleValue:
		return v.GetDoubleValue()
	case *qdrant.Value_BoolValue:
		return v.GetBoolValue()
	default:
		return v.String()
	}
}
