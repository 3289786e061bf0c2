// Package metadata derives descriptive metadata for a source file and
// validates that the file is an ingestable document.
package metadata

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bull/contract-rag/internal/domain"
)

// SupportedExtension is the one document type the pipeline accepts.
const SupportedExtension = ".pdf"

// Info is the best-effort metadata read from the document itself.
type Info struct {
	Author       string
	Creator      string
	CreationDate string
	TotalPages   int
}

// InfoParser reads format-level metadata from a validated document. The
// concrete PDF library hides behind this so tests can substitute stubs.
type InfoParser interface {
	ParseInfo(path string) (Info, error)
}

// Extractor validates a file and derives its DocumentMetadata.
type Extractor struct {
	parser InfoParser
	logger *slog.Logger
	now    func() time.Time
}

// NewExtractor creates an extractor backed by the given document parser.
func NewExtractor(parser InfoParser, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parser: parser, logger: logger, now: time.Now}
}

// Extract validates path and returns its metadata. Checks run in a fixed
// order and the first failure wins: existence, is-a-file, extension,
// readability, parse. A parse failure is fatal for the extraction as a whole,
// but the metadata computed up to that point (source, ingestion date, size)
// is still returned alongside the error, with TotalPages forced to zero.
func (e *Extractor) Extract(path string) (domain.DocumentMetadata, error) {
	var meta domain.DocumentMetadata

	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return meta, domain.Errorf(domain.CodeNotFound, path, "file not found")
	}
	if err != nil {
		return meta, domain.Wrap(domain.CodeUnreadable, path, err)
	}
	if stat.IsDir() {
		return meta, domain.Errorf(domain.CodeNotAFile, path, "path is not a file")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != SupportedExtension {
		return meta, domain.Errorf(domain.CodeUnsupportedFormat, path,
			"unsupported format %q, expected %s", ext, SupportedExtension)
	}
	f, err := os.Open(path)
	if err != nil {
		return meta, domain.Wrap(domain.CodeUnreadable, path, err)
	}
	f.Close()

	meta = domain.DocumentMetadata{
		Source:        filepath.Base(path),
		IngestionDate: e.now().Format(time.RFC3339),
		FileSizeKB:    math.Round(float64(stat.Size())/1024*100) / 100,
	}

	info, err := e.parser.ParseInfo(path)
	if err != nil {
		meta.TotalPages = 0
		e.logger.Error("document parse failed", "path", path, "error", err)
		return meta, domain.Wrap(domain.CodeMetadataExtraction, path, err)
	}

	meta.Author = info.Author
	meta.Creator = info.Creator
	meta.CreationDate = info.CreationDate
	meta.TotalPages = info.TotalPages

	e.logger.Info("extracted metadata",
		"source", meta.Source,
		"size_kb", meta.FileSizeKB,
		"pages", meta.TotalPages,
	)
	return meta, nil
}
