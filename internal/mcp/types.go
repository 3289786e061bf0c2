// Package mcp exposes the contract corpus over the Model Context Protocol.
package mcp

import "time"

// AskInput defines the input parameters for the ask_contracts tool.
type AskInput struct {
	// Query is the natural-language question about the contract corpus.
	Query string `json:"query" jsonschema:"required,description=The question to answer from the ingested contracts"`
}

// AskOutput carries the generated answer plus the evidence behind it.
type AskOutput struct {
	// Query echoes the question that was asked.
	Query string `json:"query"`
	// Context is the labeled block of retrieved chunks the answer was grounded on.
	Context string `json:"context"`
	// Response is the generated answer.
	Response string `json:"response"`
	// NumDocumentsRetrieved is how many chunks backed the answer.
	NumDocumentsRetrieved int `json:"num_documents_retrieved"`
}

// SearchInput defines the input parameters for the search_contracts tool.
type SearchInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query for finding relevant contract passages"`
	// MaxResults is the maximum number of chunks to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of chunks to return"`
}

// SearchOutput contains the raw retrieval results without generation.
type SearchOutput struct {
	// Results is the list of matching chunks ranked by similarity.
	Results []SearchResult `json:"results"`
	// Message provides informational context (e.g., "No matching passages found").
	Message string `json:"message,omitempty"`
}

// SearchResult is a single retrieved chunk.
type SearchResult struct {
	// Content is the chunk text.
	Content string `json:"content"`
	// Source is the filename the chunk came from.
	Source string `json:"source"`
	// Page is the 1-indexed page the chunk starts on.
	Page int `json:"page"`
	// Distance is the cosine distance to the query (lower is closer).
	Distance float64 `json:"distance"`
}

// StatusInput defines the input parameters for the ingestion_status tool.
// It takes no parameters.
type StatusInput struct{}

// StatusRecord is one ledger row in tool output form.
type StatusRecord struct {
	Filename     string     `json:"filename"`
	Fingerprint  string     `json:"fingerprint"`
	Status       string     `json:"status"`
	ChunkCount   int        `json:"chunks_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// StatusOutput summarizes the state of the corpus.
type StatusOutput struct {
	// TotalDocuments is the number of ledger records.
	TotalDocuments int `json:"total_documents"`
	// TotalVectors is the point count in the vector collection.
	TotalVectors uint64 `json:"total_vectors"`
	// Records lists every ingestion attempt, newest first.
	Records []StatusRecord `json:"records"`
}
