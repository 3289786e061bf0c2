package rag

import (
	"context"
	"log/slog"

	"github.com/bull/contract-rag/internal/domain"
)

// DefaultTopK matches the retrieval depth used by the query pipeline
// when nothing else is configured.
const DefaultTopK = 5

// QueryEmbedder turns a query string into a vector in the same space
// the document chunks were embedded into.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Searcher performs a similarity search over a named collection.
type Searcher interface {
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.RetrievedDocument, error)
}

// Retriever embeds a query once and fetches its nearest chunks.
type Retriever struct {
	embedder   QueryEmbedder
	index      Searcher
	collection string
	topK       int
	logger     *slog.Logger
}

func NewRetriever(embedder QueryEmbedder, index Searcher, collection string, topK int, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder:   embedder,
		index:      index,
		collection: collection,
		topK:       topK,
		logger:     logger,
	}
}

// Retrieve returns up to topK chunks ranked by similarity to query.
// An empty result set is a valid answer, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievedDocument, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.Wrap(domain.CodeRetrieval, "", err)
	}

	docs, err := r.index.Search(ctx, r.collection, vector, r.topK)
	if err != nil {
		return nil, domain.Wrap(domain.CodeRetrieval, r.collection, err)
	}

	r.logger.Debug("retrieved documents", "query_len", len(query), "count", len(docs))
	return docs, nil
}
