// Package ledger tracks one ingestion attempt per file fingerprint and
// enforces at-most-once ingestion.
package ledger

import (
	"context"
	"errors"

	"github.com/bull/contract-rag/internal/domain"
)

// ErrAlreadyIngested is returned by Register when a record with the same
// fingerprint already exists. No new record is created in that case.
var ErrAlreadyIngested = errors.New("fingerprint already ingested")

// ErrUnknownRecord is returned by Complete for an id that does not exist or
// has already reached a terminal status.
var ErrUnknownRecord = errors.New("unknown ingestion record")

// Ledger is the durable ingestion record store. Register must be atomic:
// under concurrent ingestion of the same fingerprint exactly one caller gets
// an id and every other caller gets ErrAlreadyIngested.
type Ledger interface {
	// Register inserts a new PROCESSING record and returns its id, or
	// ErrAlreadyIngested if the fingerprint is already present.
	Register(ctx context.Context, filename, fingerprint string) (int64, error)

	// Complete transitions a PROCESSING record to a terminal status exactly
	// once. Unknown or already-completed ids return ErrUnknownRecord.
	Complete(ctx context.Context, id int64, status domain.Status, chunkCount int, errorMessage string) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.IngestionRecord, error)

	// Reset clears every record. Administrative use only.
	Reset(ctx context.Context) error
}
