package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bull/contract-rag/internal/domain"
)

var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger is an in-process Ledger used in tests and in dev mode when no
// database is configured. It keeps the same atomicity contract as the
// Postgres implementation.
type MemoryLedger struct {
	mu      sync.Mutex
	nextID  int64
	byPrint map[string]*domain.IngestionRecord
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		nextID:  1,
		byPrint: make(map[string]*domain.IngestionRecord),
	}
}

// Register inserts a PROCESSING record under a single lock, so concurrent
// callers with the same fingerprint serialize exactly like the database
// unique constraint.
func (l *MemoryLedger) Register(_ context.Context, filename, fingerprint string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byPrint[fingerprint]; exists {
		return 0, ErrAlreadyIngested
	}

	rec := &domain.IngestionRecord{
		ID:          l.nextID,
		Filename:    filename,
		Fingerprint: fingerprint,
		Status:      domain.StatusProcessing,
		ProcessedAt: time.Now(),
	}
	l.nextID++
	l.byPrint[fingerprint] = rec
	return rec.ID, nil
}

// Complete transitions a PROCESSING record to its terminal status.
func (l *MemoryLedger) Complete(_ context.Context, id int64, status domain.Status, chunkCount int, errorMessage string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.byPrint {
		if rec.ID == id && rec.Status == domain.StatusProcessing {
			rec.Status = status
			rec.ChunkCount = chunkCount
			rec.ErrorMessage = errorMessage
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrUnknownRecord, id)
}

// List returns all records, newest first.
func (l *MemoryLedger) List(_ context.Context) ([]domain.IngestionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]domain.IngestionRecord, 0, len(l.byPrint))
	for _, rec := range l.byPrint {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	return records, nil
}

// Reset clears every record.
func (l *MemoryLedger) Reset(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byPrint = make(map[string]*domain.IngestionRecord)
	return nil
}
