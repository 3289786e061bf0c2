package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/contract-rag/internal/domain"
)

// Answerer runs the full retrieval-augmented query path.
type Answerer interface {
	AnswerQuery(ctx context.Context, query string) (*domain.RAGResult, error)
}

// DocumentRetriever fetches the nearest chunks for a query without generation.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.RetrievedDocument, error)
}

// LedgerReader lists ingestion records for status reporting.
type LedgerReader interface {
	List(ctx context.Context) ([]domain.IngestionRecord, error)
}

// VectorCounter reports how many points a collection holds.
type VectorCounter interface {
	Count(ctx context.Context, collection string) (uint64, error)
}

// makeAskHandler creates the ask_contracts tool handler. It runs the whole
// query pipeline and returns the answer with the context it was grounded on.
func makeAskHandler(answerer Answerer) func(
	context.Context, *mcp.CallToolRequest, AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (
		*mcp.CallToolResult, AskOutput, error,
	) {
		if input.Query == "" {
			return nil, AskOutput{}, fmt.Errorf("query must not be empty")
		}

		result, err := answerer.AnswerQuery(ctx, input.Query)
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("query failed: %w", err)
		}

		return nil, AskOutput{
			Query:                 result.Query,
			Context:               result.Context,
			Response:              result.Response,
			NumDocumentsRetrieved: result.NumDocumentsRetrieved,
		}, nil
	}
}

// makeSearchHandler creates the search_contracts tool handler. It returns raw
// retrieval results so a client can inspect the corpus without spending a
// generation call.
func makeSearchHandler(retriever DocumentRetriever) func(
	context.Context, *mcp.CallToolRequest, SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		if input.Query == "" {
			return nil, SearchOutput{}, fmt.Errorf("query must not be empty")
		}

		docs, err := retriever.Retrieve(ctx, input.Query)
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
		}

		maxResults := input.MaxResults
		if maxResults > 0 && len(docs) > maxResults {
			docs = docs[:maxResults]
		}

		results := make([]SearchResult, 0, len(docs))
		for _, doc := range docs {
			results = append(results, SearchResult{
				Content:  doc.Content,
				Source:   metadataString(doc.Metadata, "source"),
				Page:     metadataInt(doc.Metadata, "page"),
				Distance: doc.Distance,
			})
		}

		if len(results) == 0 {
			return nil, SearchOutput{
				Results: []SearchResult{},
				Message: "No matching passages found. Try broader search terms.",
			}, nil
		}

		return nil, SearchOutput{Results: results}, nil
	}
}

// makeStatusHandler creates the ingestion_status tool handler. It combines
// the ledger view (every attempt, including failures) with the live point
// count from the vector collection.
func makeStatusHandler(ledger LedgerReader, counter VectorCounter, collection string) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		records, err := ledger.List(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("listing ingestion records: %w", err)
		}

		out := StatusOutput{
			TotalDocuments: len(records),
			Records:        make([]StatusRecord, 0, len(records)),
		}
		for _, rec := range records {
			sr := StatusRecord{
				Filename:     rec.Filename,
				Fingerprint:  rec.Fingerprint,
				Status:       string(rec.Status),
				ChunkCount:   rec.ChunkCount,
				ErrorMessage: rec.ErrorMessage,
			}
			if !rec.ProcessedAt.IsZero() {
				t := rec.ProcessedAt
				sr.ProcessedAt = &t
			}
			out.Records = append(out.Records, sr)
		}

		// A count failure is not fatal for the tool: the ledger view is
		// still useful when qdrant is down.
		if count, err := counter.Count(ctx, collection); err == nil {
			out.TotalVectors = count
		}

		return nil, out, nil
	}
}

func metadataString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metadataInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
