package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/contract-rag/internal/domain"
)

type stubParser struct {
	info Info
	err  error
}

func (s stubParser) ParseInfo(string) (Info, error) { return s.info, s.err }

func writePDF(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor(stubParser{}, nil)
	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.True(t, domain.IsCode(err, domain.CodeNotFound), "got %v", err)
}

func TestExtractDirectory(t *testing.T) {
	e := NewExtractor(stubParser{}, nil)
	_, err := e.Extract(t.TempDir())
	assert.True(t, domain.IsCode(err, domain.CodeNotAFile), "got %v", err)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	e := NewExtractor(stubParser{}, nil)
	_, err := e.Extract(path)
	assert.True(t, domain.IsCode(err, domain.CodeUnsupportedFormat), "got %v", err)
}

func TestExtractValidationOrder(t *testing.T) {
	// A missing .txt path must report NOT_FOUND, not UNSUPPORTED_FORMAT:
	// existence is checked before the extension.
	e := NewExtractor(stubParser{}, nil)
	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, domain.IsCode(err, domain.CodeNotFound), "got %v", err)
}

func TestExtractValidFile(t *testing.T) {
	path := writePDF(t, 2048)
	e := NewExtractor(stubParser{info: Info{
		Author:     "Legal Dept",
		Creator:    "WordProcessor 9",
		TotalPages: 12,
	}}, nil)

	meta, err := e.Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "contract.pdf", meta.Source)
	assert.NotEmpty(t, meta.IngestionDate)
	assert.Greater(t, meta.FileSizeKB, 0.0)
	assert.InDelta(t, 2.0, meta.FileSizeKB, 0.001)
	assert.Equal(t, "Legal Dept", meta.Author)
	assert.Equal(t, 12, meta.TotalPages)
}

func TestExtractParserFailureKeepsPartialMetadata(t *testing.T) {
	path := writePDF(t, 1024)
	e := NewExtractor(stubParser{err: errors.New("corrupt xref table")}, nil)

	meta, err := e.Extract(path)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeMetadataExtraction), "got %v", err)

	// Partial fields computed before the parse are still reported.
	assert.Equal(t, "contract.pdf", meta.Source)
	assert.Greater(t, meta.FileSizeKB, 0.0)
	assert.Equal(t, 0, meta.TotalPages)
}
