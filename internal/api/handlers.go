// Package api serves the JSON surface of the query pipeline and the
// ingestion ledger.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bull/contract-rag/internal/domain"
)

// QueryService answers questions over the ingested corpus.
type QueryService interface {
	AnswerQuery(ctx context.Context, query string) (*domain.RAGResult, error)
}

// LedgerReader lists ingestion records.
type LedgerReader interface {
	List(ctx context.Context) ([]domain.IngestionRecord, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	queries QueryService
	ledger  LedgerReader
	logger  *slog.Logger
}

func NewHandlers(queries QueryService, ledger LedgerReader, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{queries: queries, ledger: ledger, logger: logger}
}

type queryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Query handles POST /api/query.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Query == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "query must not be empty"})
		return
	}

	result, err := h.queries.AnswerQuery(r.Context(), req.Query)
	if err != nil {
		h.logger.Error("query failed", "error", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{
			Error: err.Error(),
			Code:  string(domain.CodeOf(err)),
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// documentRecord is the ledger row in API form.
type documentRecord struct {
	ID           int64      `json:"id"`
	Filename     string     `json:"filename"`
	Fingerprint  string     `json:"file_hash"`
	Status       string     `json:"status"`
	ChunkCount   int        `json:"chunks_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

type documentsResponse struct {
	Documents []documentRecord `json:"documents"`
	Total     int              `json:"total"`
}

// Documents handles GET /api/documents.
func (h *Handlers) Documents(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.List(r.Context())
	if err != nil {
		h.logger.Error("listing documents failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: err.Error(),
			Code:  string(domain.CodeOf(err)),
		})
		return
	}

	resp := documentsResponse{Documents: make([]documentRecord, 0, len(records)), Total: len(records)}
	for _, rec := range records {
		dr := documentRecord{
			ID:           rec.ID,
			Filename:     rec.Filename,
			Fingerprint:  rec.Fingerprint,
			Status:       string(rec.Status),
			ChunkCount:   rec.ChunkCount,
			ErrorMessage: rec.ErrorMessage,
		}
		if !rec.ProcessedAt.IsZero() {
			t := rec.ProcessedAt
			dr.ProcessedAt = &t
		}
		resp.Documents = append(resp.Documents, dr)
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
