package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BatchResult aggregates the outcomes of a directory ingestion run.
type BatchResult struct {
	TotalFiles  int
	Ingested    int
	Skipped     int
	TotalChunks int
	Failed      []FailedFile
	Duration    time.Duration
}

// FailedFile names one file that could not be ingested and why.
type FailedFile struct {
	Path   string
	Reason string
}

// IngestDir processes every PDF in dir sequentially. One bad file never
// aborts the batch: failures are collected and the run continues. Listing
// the directory itself failing is the only batch-level error.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (*BatchResult, error) {
	start := time.Now()

	paths, err := listPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", dir, err)
	}

	result := &BatchResult{TotalFiles: len(paths)}
	p.logger.Info("starting batch ingestion", "dir", dir, "files", len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := p.IngestFile(ctx, path)
		switch outcome.Disposition {
		case Ingested:
			result.Ingested++
			result.TotalChunks += outcome.ChunkCount
		case Skipped:
			result.Skipped++
		case Failed:
			result.Failed = append(result.Failed, FailedFile{
				Path:   path,
				Reason: outcome.Err.Error(),
			})
		}
	}

	result.Duration = time.Since(start)
	p.logger.Info("batch ingestion complete",
		"ingested", result.Ingested,
		"skipped", result.Skipped,
		"failed", len(result.Failed),
		"chunks", result.TotalChunks,
		"duration", result.Duration,
	)
	return result, nil
}

// listPDFs returns the .pdf files directly under dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
