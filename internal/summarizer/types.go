package summarizer

import (
	"fmt"
	"time"
)

// CompletionResult is the answer for one chunk.
type CompletionResult struct {
	ChunkIndex int
	Text       string
	// Answers holds one answer per question when chunks are answered in the
	// structured JSON format.
	Answers []string
}

// Final holds the two output blocks.
type Final struct {
	Summary     string
	ActionItems string
}

// Minutes is everything a finished run hands to the display layer.
type Minutes struct {
	RunID       string
	Source      string
	Entries     int
	Chunks      int
	Aggregated  string
	Summary     string
	ActionItems string
	// Stage is the last pipeline stage the run reached.
	Stage   string
	Elapsed time.Duration
}

// ChunkError reports which chunk's completion failed.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }
