package processor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

// DisplayFunc hands finished minutes to whatever shows them.
type DisplayFunc func(ctx context.Context, m *summarizer.Minutes) error

// Processor defines the interface for transcript processing operations
type Processor interface {
	// Run takes transcript text through every pipeline stage. display may be
	// nil, in which case the run stops at the final completions.
	Run(ctx context.Context, source, text string, display DisplayFunc) (*summarizer.Minutes, error)
	// Process runs the transcript file at path, writes its reports and
	// archives the input.
	Process(ctx context.Context, path string) error
	// WriteReports writes the markdown (and optionally .docx) report.
	WriteReports(ctx context.Context, m *summarizer.Minutes) error
}
