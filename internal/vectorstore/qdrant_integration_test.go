//go:build integration

package vectorstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/contract-rag/internal/domain"
)

const testCollection = "documents_test"

func testVector(seed float32) []float32 {
	v := make([]float32, VectorDimension)
	v[0] = seed
	v[1] = 1 - seed
	return v
}

func TestIndex_Integration(t *testing.T) {
	if os.Getenv("QDRANT_HOST") == "" {
		t.Skip("QDRANT_HOST not set, skipping integration test")
	}

	ctx := context.Background()
	index, err := NewIndex(os.Getenv("QDRANT_HOST"), 6334)
	require.NoError(t, err)
	defer index.Close()

	require.NoError(t, index.Health(ctx))
	require.NoError(t, index.ClearCollection(ctx, testCollection))

	doc := domain.DocumentMetadata{
		Source:        "msa.pdf",
		IngestionDate: "2026-03-01T12:00:00Z",
		FileSizeKB:    42.5,
		TotalPages:    3,
	}
	chunks := []domain.Chunk{
		{Text: "liability is capped at fees paid", Page: 1, Document: doc},
		{Text: "termination requires sixty days notice", Page: 2, Document: doc},
	}
	vectors := [][]float32{testVector(0.9), testVector(0.1)}

	require.NoError(t, index.Upsert(ctx, testCollection, chunks, vectors))

	count, err := index.Count(ctx, testCollection)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	results, err := index.Search(ctx, testCollection, testVector(0.9), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "liability is capped at fees paid", results[0].Content)
	assert.Equal(t, "msa.pdf", results[0].Metadata["source"])
	assert.Less(t, results[0].Distance, 0.1, "nearest neighbor should be close")

	// Dimension mismatch is rejected before reaching qdrant
	err = index.Upsert(ctx, testCollection, chunks[:1], [][]float32{{0.1, 0.2}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	require.NoError(t, index.ClearCollection(ctx, testCollection))
}
