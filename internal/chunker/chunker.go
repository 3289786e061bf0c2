// Package chunker splits cleaned page text into overlapping windows suitable
// for embedding.
package chunker

import (
	"fmt"

	"github.com/bull/contract-rag/internal/domain"
)

// DefaultWindow is the default chunk size in code points.
const DefaultWindow = 1000

// DefaultOverlap is the default overlap between consecutive chunks.
const DefaultOverlap = 150

// Splitter performs a greedy sliding-window split. Chunk boundaries are
// measured in Unicode code points so multi-byte text never splits mid-rune.
type Splitter struct {
	window  int
	overlap int
}

// New creates a splitter. A non-positive window or a negative overlap falls
// back to the default; zero overlap is valid. The overlap must stay smaller
// than the window; Split reports a violation rather than looping forever.
func New(window, overlap int) *Splitter {
	if window <= 0 {
		window = DefaultWindow
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Splitter{window: window, overlap: overlap}
}

// Split chunks each page's text independently and attaches the owning
// document's metadata to every chunk. Each chunk is at most window units
// long, consecutive chunks within a page overlap by exactly the configured
// amount (except possibly the last), and the chunk count is deterministic
// for identical input. Empty pages produce no chunks; an empty page sequence
// produces an empty result, not an error.
func (s *Splitter) Split(pages []domain.Page, doc domain.DocumentMetadata) ([]domain.Chunk, error) {
	if s.overlap >= s.window {
		return nil, fmt.Errorf("overlap %d must be smaller than window %d", s.overlap, s.window)
	}

	var chunks []domain.Chunk
	for _, page := range pages {
		for _, text := range s.splitText(page.Text) {
			chunks = append(chunks, domain.Chunk{
				Text:     text,
				Page:     page.Number,
				Document: doc,
			})
		}
	}
	return chunks, nil
}

func (s *Splitter) splitText(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.window {
		return []string{text}
	}

	step := s.window - s.overlap
	var out []string
	for start := 0; ; start += step {
		end := start + s.window
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
