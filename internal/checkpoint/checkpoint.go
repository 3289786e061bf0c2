// Package checkpoint persists auditable snapshots of cleaned document content
// before the irreversible embedding step. Snapshots are human-readable JSON
// keyed by the source file's base name, and their schema is stable across
// versions so re-ingestion tooling can depend on it.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bull/contract-rag/internal/domain"
)

// Store writes and reads ProcessedCheckpoint files under a fixed directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a checkpoint store rooted at dir. The directory is created
// lazily on the first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the checkpoint file path for a source document.
func (s *Store) Path(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(s.dir, base+".json")
}

// Write builds the checkpoint for the given chunks and writes it, overwriting
// any prior checkpoint for the same source. Entries are 1-indexed over the
// chunk sequence and FullTextLength is the sum of chunk text lengths.
func (s *Store) Write(source string, meta domain.DocumentMetadata, chunks []domain.Chunk) (string, error) {
	cp := domain.ProcessedCheckpoint{
		Metadata:       meta,
		ContentPerPage: make([]domain.CheckpointEntry, len(chunks)),
	}
	for i, c := range chunks {
		cp.ContentPerPage[i] = domain.CheckpointEntry{Page: i + 1, Content: c.Text}
		cp.FullTextLength += len(c.Text)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create checkpoint dir: %w", err)
	}

	data, err := json.MarshalIndent(cp, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode checkpoint: %w", err)
	}

	path := s.Path(source)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write checkpoint: %w", err)
	}

	s.logger.Info("checkpoint written", "path", path, "chunks", len(chunks))
	return path, nil
}

// Read loads a previously written checkpoint for the given source document.
func (s *Store) Read(source string) (domain.ProcessedCheckpoint, error) {
	var cp domain.ProcessedCheckpoint

	data, err := os.ReadFile(s.Path(source))
	if err != nil {
		return cp, fmt.Errorf("read checkpoint: %w", err)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}
