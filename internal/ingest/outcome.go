package ingest

// Disposition says how the pipeline disposed of one file.
type Disposition int

const (
	// Ingested: the file was new and is now chunked, checkpointed, and stored.
	Ingested Disposition = iota
	// Skipped: the fingerprint was already in the ledger; no work was done.
	Skipped
	// Failed: a stage failed; Outcome.Err carries the cause.
	Failed
)

func (d Disposition) String() string {
	switch d {
	case Ingested:
		return "ingested"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of ingesting one file. Exactly one disposition
// applies; Err is set only for Failed.
type Outcome struct {
	Disposition    Disposition
	Path           string
	Fingerprint    string
	ChunkCount     int
	CheckpointPath string
	Err            error
}
