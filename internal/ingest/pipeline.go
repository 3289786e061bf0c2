// Package ingest orchestrates the per-file ingestion pipeline:
// hash, ledger dedup check, metadata extraction, page loading, chunking,
// checkpointing, then embedding and vector storage.
package ingest

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/bull/contract-rag/internal/domain"
	"github.com/bull/contract-rag/internal/hashing"
	"github.com/bull/contract-rag/internal/ledger"
)

// MetadataExtractor validates a file and derives its document metadata.
type MetadataExtractor interface {
	Extract(path string) (domain.DocumentMetadata, error)
}

// PageLoader extracts cleaned page text from a document file.
type PageLoader interface {
	LoadPages(path string) ([]domain.Page, error)
}

// Splitter turns cleaned pages into embedding-ready chunks.
type Splitter interface {
	Split(pages []domain.Page, doc domain.DocumentMetadata) ([]domain.Chunk, error)
}

// CheckpointWriter persists the auditable pre-embedding snapshot.
type CheckpointWriter interface {
	Write(source string, meta domain.DocumentMetadata, chunks []domain.Chunk) (string, error)
}

// Embedder turns chunk texts into vectors, one per input.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores embedded chunks under a collection.
type VectorIndex interface {
	Upsert(ctx context.Context, collection string, chunks []domain.Chunk, vectors [][]float32) error
}

// Pipeline runs the full ingestion flow for single files and directories.
type Pipeline struct {
	ledger      ledger.Ledger
	extractor   MetadataExtractor
	loader      PageLoader
	splitter    Splitter
	checkpoints CheckpointWriter
	embedder    Embedder
	index       VectorIndex
	collection  string
	logger      *slog.Logger
}

// NewPipeline wires the pipeline's collaborators. Chunks are stored under the
// given vector collection.
func NewPipeline(
	led ledger.Ledger,
	extractor MetadataExtractor,
	loader PageLoader,
	splitter Splitter,
	checkpoints CheckpointWriter,
	embedder Embedder,
	index VectorIndex,
	collection string,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ledger:      led,
		extractor:   extractor,
		loader:      loader,
		splitter:    splitter,
		checkpoints: checkpoints,
		embedder:    embedder,
		index:       index,
		collection:  collection,
		logger:      logger,
	}
}

// IngestFile runs the pipeline for a single file and reports how it was
// disposed of. Duplicates are skipped before any processing; once a ledger
// record exists every stage failure transitions it to FAILED, and SUCCESS is
// recorded only after the vector upsert confirms.
func (p *Pipeline) IngestFile(ctx context.Context, path string) Outcome {
	fingerprint, err := hashing.Fingerprint(path)
	if err != nil {
		return p.failed(path, "", domain.Wrap(domain.CodeUnreadable, path, err))
	}
	p.logger.Debug("computed fingerprint", "path", path, "fingerprint", fingerprint)

	recordID, err := p.ledger.Register(ctx, filepath.Base(path), fingerprint)
	if err == ledger.ErrAlreadyIngested {
		p.logger.Info("skipping already-ingested file", "path", path)
		return Outcome{Disposition: Skipped, Path: path, Fingerprint: fingerprint}
	}
	if err != nil {
		return p.failed(path, fingerprint, err)
	}

	meta, err := p.extractor.Extract(path)
	if err != nil {
		return p.failStage(ctx, recordID, path, fingerprint, err)
	}

	pages, err := p.loader.LoadPages(path)
	if err != nil {
		return p.failStage(ctx, recordID, path, fingerprint,
			domain.Wrap(domain.CodeLoading, path, err))
	}
	p.logger.Info("loaded pages", "path", path, "pages", len(pages))

	chunks, err := p.splitter.Split(pages, meta)
	if err != nil {
		return p.failStage(ctx, recordID, path, fingerprint,
			domain.Wrap(domain.CodeSplitting, path, err))
	}
	p.logger.Info("split into chunks", "path", path, "chunks", len(chunks))

	checkpointPath, err := p.checkpoints.Write(path, meta, chunks)
	if err != nil {
		return p.failStage(ctx, recordID, path, fingerprint,
			domain.Wrap(domain.CodeCheckpoint, path, err))
	}

	if err := p.embedAndStore(ctx, chunks); err != nil {
		return p.failStage(ctx, recordID, path, fingerprint,
			domain.Wrap(domain.CodeStorage, path, err))
	}

	if err := p.ledger.Complete(ctx, recordID, domain.StatusSuccess, len(chunks), ""); err != nil {
		return p.failed(path, fingerprint, err)
	}

	p.logger.Info("ingestion completed", "path", path, "chunks", len(chunks))
	return Outcome{
		Disposition:    Ingested,
		Path:           path,
		Fingerprint:    fingerprint,
		ChunkCount:     len(chunks),
		CheckpointPath: checkpointPath,
	}
}

func (p *Pipeline) embedAndStore(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	return p.index.Upsert(ctx, p.collection, chunks, vectors)
}

// failStage records the terminal FAILED status for the file's ledger record
// and reports the stage error. A ledger write failure here is logged but the
// stage error stays the reported cause.
func (p *Pipeline) failStage(ctx context.Context, recordID int64, path, fingerprint string, stageErr error) Outcome {
	if err := p.ledger.Complete(ctx, recordID, domain.StatusFailed, 0, stageErr.Error()); err != nil {
		p.logger.Error("could not record FAILED status", "path", path, "error", err)
	}
	return p.failed(path, fingerprint, stageErr)
}

func (p *Pipeline) failed(path, fingerprint string, err error) Outcome {
	p.logger.Error("ingestion failed", "path", path, "error", err)
	return Outcome{Disposition: Failed, Path: path, Fingerprint: fingerprint, Err: err}
}
