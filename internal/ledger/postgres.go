package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/bull/contract-rag/internal/domain"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS document_ingestion (
	id BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL,
	file_hash TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL,
	chunks_count INTEGER NOT NULL DEFAULT 0,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	error_message TEXT
);`

var _ Ledger = (*PostgresLedger)(nil)

// PostgresLedger stores ingestion records in Postgres. The UNIQUE constraint
// on file_hash makes Register race-free: concurrent inserts of the same
// fingerprint resolve at the database, not in application code.
type PostgresLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresLedger opens a connection pool against databaseURL, verifies
// connectivity, and ensures the ingestion table exists.
func NewPostgresLedger(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresLedger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if databaseURL == "" {
		return nil, domain.Errorf(domain.CodeLedgerUnavailable, "", "DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", fmt.Errorf("ping: %w", err))
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", fmt.Errorf("create table: %w", err))
	}

	logger.Info("ingestion ledger ready")
	return &PostgresLedger{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (l *PostgresLedger) Close() error {
	return l.db.Close()
}

// Register inserts a PROCESSING record, or reports ErrAlreadyIngested when
// the fingerprint conflicts with an existing row.
func (l *PostgresLedger) Register(ctx context.Context, filename, fingerprint string) (int64, error) {
	const q = `
		INSERT INTO document_ingestion (filename, file_hash, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_hash) DO NOTHING
		RETURNING id`

	var id int64
	err := l.db.QueryRowContext(ctx, q, filename, fingerprint, domain.StatusProcessing).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		l.logger.Info("fingerprint already ingested", "filename", filename)
		return 0, ErrAlreadyIngested
	}
	if err != nil {
		return 0, domain.Wrap(domain.CodeLedgerUnavailable, filename, err)
	}

	l.logger.Info("ingestion registered", "filename", filename, "id", id)
	return id, nil
}

// Complete moves a PROCESSING record to its terminal status.
func (l *PostgresLedger) Complete(ctx context.Context, id int64, status domain.Status, chunkCount int, errorMessage string) error {
	const q = `
		UPDATE document_ingestion
		SET status = $1, chunks_count = $2, error_message = NULLIF($3, '')
		WHERE id = $4 AND status = $5`

	res, err := l.db.ExecContext(ctx, q, status, chunkCount, errorMessage, id, domain.StatusProcessing)
	if err != nil {
		return domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrUnknownRecord, id)
	}

	l.logger.Info("ingestion status updated", "id", id, "status", status, "chunks", chunkCount)
	return nil
}

// List returns every record, newest first.
func (l *PostgresLedger) List(ctx context.Context) ([]domain.IngestionRecord, error) {
	const q = `
		SELECT id, filename, file_hash, status, chunks_count, processed_at, COALESCE(error_message, '')
		FROM document_ingestion
		ORDER BY processed_at DESC, id DESC`

	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	defer rows.Close()

	var records []domain.IngestionRecord
	for rows.Next() {
		var r domain.IngestionRecord
		if err := rows.Scan(&r.ID, &r.Filename, &r.Fingerprint, &r.Status, &r.ChunkCount, &r.ProcessedAt, &r.ErrorMessage); err != nil {
			return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	return records, nil
}

// Reset deletes all records.
func (l *PostgresLedger) Reset(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM document_ingestion`); err != nil {
		return domain.Wrap(domain.CodeLedgerUnavailable, "", err)
	}
	l.logger.Info("ingestion ledger cleared")
	return nil
}
