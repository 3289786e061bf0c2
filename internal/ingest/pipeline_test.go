package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/contract-rag/internal/chunker"
	"github.com/bull/contract-rag/internal/domain"
	"github.com/bull/contract-rag/internal/ledger"
)

type fakeExtractor struct {
	meta    domain.DocumentMetadata
	err     error
	failFor map[string]error // per-path failures for batch tests
	calls   int
}

func (f *fakeExtractor) Extract(path string) (domain.DocumentMetadata, error) {
	f.calls++
	if err, ok := f.failFor[filepath.Base(path)]; ok {
		return domain.DocumentMetadata{}, err
	}
	if f.err != nil {
		return domain.DocumentMetadata{}, f.err
	}
	meta := f.meta
	meta.Source = filepath.Base(path)
	return meta, nil
}

type fakeLoader struct {
	pages []domain.Page
	err   error
}

func (f *fakeLoader) LoadPages(string) ([]domain.Page, error) {
	return f.pages, f.err
}

type failingSplitter struct{ err error }

func (f failingSplitter) Split([]domain.Page, domain.DocumentMetadata) ([]domain.Chunk, error) {
	return nil, f.err
}

type fakeCheckpoints struct {
	writes int
	err    error
}

func (f *fakeCheckpoints) Write(source string, _ domain.DocumentMetadata, _ []domain.Chunk) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.writes++
	return source + ".json", nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

type fakeIndex struct {
	err     error
	upserts int
	chunks  int
}

func (f *fakeIndex) Upsert(_ context.Context, _ string, chunks []domain.Chunk, vectors [][]float32) error {
	if f.err != nil {
		return f.err
	}
	if len(chunks) != len(vectors) {
		return errors.New("chunk/vector mismatch")
	}
	f.upserts++
	f.chunks += len(chunks)
	return nil
}

type deps struct {
	ledger      *ledger.MemoryLedger
	extractor   *fakeExtractor
	loader      *fakeLoader
	splitter    Splitter
	checkpoints *fakeCheckpoints
	embedder    *fakeEmbedder
	index       *fakeIndex
}

func newDeps() *deps {
	return &deps{
		ledger:      ledger.NewMemoryLedger(),
		extractor:   &fakeExtractor{meta: domain.DocumentMetadata{TotalPages: 1}},
		loader:      &fakeLoader{pages: []domain.Page{{Number: 1, Text: "the payment terms are net 30 days from the invoice date"}}},
		splitter:    chunker.New(40, 10),
		checkpoints: &fakeCheckpoints{},
		embedder:    &fakeEmbedder{},
		index:       &fakeIndex{},
	}
}

func (d *deps) pipeline() *Pipeline {
	return NewPipeline(d.ledger, d.extractor, d.loader, d.splitter, d.checkpoints, d.embedder, d.index, "documents", nil)
}

func writeTempPDF(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestIngestFileHappyPath(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("raw pdf bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	require.NoError(t, outcome.Err)
	assert.Equal(t, Ingested, outcome.Disposition)
	assert.Greater(t, outcome.ChunkCount, 0)
	assert.NotEmpty(t, outcome.Fingerprint)
	assert.NotEmpty(t, outcome.CheckpointPath)

	assert.Equal(t, 1, d.checkpoints.writes)
	assert.Equal(t, 1, d.index.upserts)
	assert.Equal(t, outcome.ChunkCount, d.index.chunks)

	records, err := d.ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusSuccess, records[0].Status)
	assert.Equal(t, outcome.ChunkCount, records[0].ChunkCount)
	assert.Equal(t, "contract.pdf", records[0].Filename)
}

func TestIngestFileSkipsDuplicate(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	dir := t.TempDir()
	path := writeTempPDF(t, dir, "contract.pdf", []byte("raw pdf bytes"))

	first := d.pipeline().IngestFile(ctx, path)
	require.Equal(t, Ingested, first.Disposition)

	// Same bytes under a different name still dedups on content.
	copyPath := writeTempPDF(t, dir, "contract-copy.pdf", []byte("raw pdf bytes"))
	second := d.pipeline().IngestFile(ctx, copyPath)

	assert.Equal(t, Skipped, second.Disposition)
	assert.NoError(t, second.Err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	assert.Equal(t, 1, d.checkpoints.writes, "skip must not overwrite the checkpoint")
	assert.Equal(t, 1, d.index.upserts)

	records, err := d.ledger.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1, "skip must not create a second ledger record")
}

func TestIngestFileMetadataFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.extractor.err = domain.Errorf(domain.CodeMetadataExtraction, "", "corrupt xref table")
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeMetadataExtraction))

	records, err := d.ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusFailed, records[0].Status)
	assert.NotEmpty(t, records[0].ErrorMessage)
}

func TestIngestFileLoadingFailure(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.loader.err = errors.New("damaged page tree")
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeLoading), "got %v", outcome.Err)
	assert.Equal(t, 0, d.checkpoints.writes)

	records, _ := d.ledger.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusFailed, records[0].Status)
}

func TestIngestFileSplittingFailure(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.splitter = failingSplitter{err: errors.New("bad window")}
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeSplitting))
	assert.Equal(t, 0, d.index.upserts, "storage must not run after a splitting failure")

	records, _ := d.ledger.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusFailed, records[0].Status)
}

func TestIngestFileCheckpointFailure(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.checkpoints.err = errors.New("disk full")
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeCheckpoint))
	assert.Equal(t, 0, d.embedder.calls, "embedding must not run without a checkpoint")
}

func TestIngestFileStorageFailureNeverMarksSuccess(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.index.err = errors.New("collection unavailable")
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := d.pipeline().IngestFile(ctx, path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeStorage))

	records, _ := d.ledger.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusFailed, records[0].Status,
		"SUCCESS is recorded only after storage confirms")
}

type downLedger struct {
	*ledger.MemoryLedger
}

func (downLedger) Register(context.Context, string, string) (int64, error) {
	return 0, domain.Wrap(domain.CodeLedgerUnavailable, "", errors.New("connection refused"))
}

func TestIngestFileLedgerUnavailable(t *testing.T) {
	d := newDeps()
	p := NewPipeline(downLedger{d.ledger}, d.extractor, d.loader, d.splitter, d.checkpoints, d.embedder, d.index, "documents", nil)
	path := writeTempPDF(t, t.TempDir(), "contract.pdf", []byte("bytes"))

	outcome := p.IngestFile(context.Background(), path)

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeLedgerUnavailable))
	assert.Equal(t, 0, d.extractor.calls, "no processing without a ledger record")
	assert.Equal(t, 0, d.index.upserts)
}

func TestIngestFileUnreadablePath(t *testing.T) {
	d := newDeps()
	outcome := d.pipeline().IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	assert.Equal(t, Failed, outcome.Disposition)
	assert.True(t, domain.IsCode(outcome.Err, domain.CodeUnreadable))
	assert.Equal(t, 0, d.extractor.calls)

	records, _ := d.ledger.List(context.Background())
	assert.Empty(t, records, "nothing is registered before the fingerprint exists")
}

func TestIngestDirContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	d := newDeps()
	d.extractor.failFor = map[string]error{
		"broken.pdf": domain.Errorf(domain.CodeMetadataExtraction, "broken.pdf", "unparseable"),
	}

	dir := t.TempDir()
	writeTempPDF(t, dir, "alpha.pdf", []byte("alpha bytes"))
	writeTempPDF(t, dir, "broken.pdf", []byte("broken bytes"))
	writeTempPDF(t, dir, "zeta.pdf", []byte("zeta bytes"))
	writeTempPDF(t, dir, "notes.txt", []byte("ignored"))

	result, err := d.pipeline().IngestDir(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFiles, "only .pdf files are picked up")
	assert.Equal(t, 2, result.Ingested)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Path, "broken.pdf")
	assert.Greater(t, result.TotalChunks, 0)
}

func TestIngestDirEmptyDirectory(t *testing.T) {
	d := newDeps()
	result, err := d.pipeline().IngestDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalFiles)
	assert.Empty(t, result.Failed)
}

func TestIngestDirMissingDirectory(t *testing.T) {
	d := newDeps()
	_, err := d.pipeline().IngestDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
