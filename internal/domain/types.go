// Package domain holds the core data model shared by the ingestion and query
// pipelines, plus the single error taxonomy both pipelines report through.
package domain

import "time"

// DocumentMetadata is the descriptive metadata derived once per source file
// and attached to every chunk produced from it. The author/creator/creation
// date fields are best-effort and may stay empty when the PDF carries no info
// dictionary.
type DocumentMetadata struct {
	Source        string  `json:"source"`
	IngestionDate string  `json:"ingestion_date"`
	FileSizeKB    float64 `json:"file_size_kb"`
	Author        string  `json:"author,omitempty"`
	Creator       string  `json:"creator,omitempty"`
	CreationDate  string  `json:"creation_date,omitempty"`
	TotalPages    int     `json:"total_pages"`
}

// Page is one cleaned page of extracted text. Number is 1-indexed.
type Page struct {
	Number int
	Text   string
}

// Chunk is a bounded, overlapping window of cleaned page text prepared for
// embedding. Document carries the owning file's metadata; Page is the source
// page number.
type Chunk struct {
	Text     string
	Page     int
	Document DocumentMetadata
}

// Status is the lifecycle state of an ingestion record.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
)

// IngestionRecord tracks one ingestion attempt per file fingerprint. Records
// are created PROCESSING, transition exactly once to SUCCESS or FAILED, and
// are never deleted outside an administrative reset.
type IngestionRecord struct {
	ID           int64
	Filename     string
	Fingerprint  string
	Status       Status
	ChunkCount   int
	ErrorMessage string
	ProcessedAt  time.Time
}

// CheckpointEntry is one chunk of cleaned content inside a checkpoint.
// Page numbering is 1-indexed over the chunk sequence.
type CheckpointEntry struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// ProcessedCheckpoint is the auditable snapshot written before the
// irreversible embedding step. Its JSON shape is stable across versions so
// re-ingestion tooling can rely on it.
type ProcessedCheckpoint struct {
	Metadata       DocumentMetadata  `json:"metadata"`
	ContentPerPage []CheckpointEntry `json:"content_per_page"`
	FullTextLength int               `json:"full_text_length"`
}

// RetrievedDocument is one nearest-neighbor match for a query. Distance is
// 1 - cosine similarity, so smaller means more similar.
type RetrievedDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}

// RAGResult is the outcome of one retrieval-augmented query. Context is the
// labeled block of retrieved chunks exactly as it was shown to the model, so
// callers can audit what the response was grounded on.
type RAGResult struct {
	Query                 string `json:"query"`
	Context               string `json:"context"`
	Response              string `json:"response"`
	NumDocumentsRetrieved int    `json:"num_documents_retrieved"`
}
