package processor

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

// Stage is a step of the pipeline. Runs only move forward, or to StageFailed.
type Stage int

const (
	StageIdle Stage = iota
	StageEntriesExtracted
	StageChunked
	StagePerChunkCompletionsDone
	StageAggregated
	StageFinalCompletionsDone
	StageDisplayed
	StageFailed
)

var stageNames = [...]string{
	StageIdle:                    "idle",
	StageEntriesExtracted:        "entries_extracted",
	StageChunked:                 "chunked",
	StagePerChunkCompletionsDone: "per_chunk_completions_done",
	StageAggregated:              "aggregated",
	StageFinalCompletionsDone:    "final_completions_done",
	StageDisplayed:               "displayed",
	StageFailed:                  "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError reports the stage a run failed in, and the chunk when the failure
// came from one chunk's completion. ChunkIndex is -1 otherwise.
type StageError struct {
	Stage      Stage
	ChunkIndex int
	Err        error
}

func (e *StageError) Error() string {
	if e.ChunkIndex >= 0 {
		return fmt.Sprintf("stage %s (chunk %d): %v", e.Stage, e.ChunkIndex, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func newStageError(stage Stage, err error) *StageError {
	se := &StageError{Stage: stage, ChunkIndex: -1, Err: err}
	var chunkErr *summarizer.ChunkError
	if errors.As(err, &chunkErr) {
		se.ChunkIndex = chunkErr.Index
	}
	return se
}
