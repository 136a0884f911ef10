package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/chunker"
)

// Summarizer drives the completion service over packed chunks and turns the
// per-chunk answers into a summary and an action item list.
type Summarizer interface {
	// SummarizeChunks issues one completion per chunk and returns the results
	// in chunk order.
	SummarizeChunks(ctx context.Context, chunks []chunker.Chunk) ([]CompletionResult, error)
	// Aggregate joins per-chunk results into the text the final calls read.
	Aggregate(results []CompletionResult) (string, error)
	// Finalize issues the summary and action item calls over aggregated text.
	Finalize(ctx context.Context, aggregated string) (Final, error)
}
