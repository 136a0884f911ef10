package httpapi

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

// Runner runs transcript text through the pipeline
type Runner interface {
	Run(ctx context.Context, source, text string, display processor.DisplayFunc) (*summarizer.Minutes, error)
}

// MinutesRequest is the body of POST /v1/minutes
type MinutesRequest struct {
	Name       string `json:"name" validate:"omitempty,max=200"`
	Transcript string `json:"transcript" validate:"required"`
}

// MinutesResponse is returned by POST /v1/minutes
type MinutesResponse struct {
	RunID       string `json:"run_id"`
	Entries     int    `json:"entries"`
	Chunks      int    `json:"chunks"`
	Summary     string `json:"summary"`
	ActionItems string `json:"action_items"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Stage   string   `json:"stage,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
