package summarizer

import (
	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

// Options controls prompts and concurrency of a Summarizer.
type Options struct {
	Model         string
	Temperature   float32
	SummaryWords  int
	MaxConcurrent int
	// Structured asks every chunk for a JSON object with one answer per
	// question instead of free-form notes.
	Structured bool
	Questions  []string
}

// DefaultQuestions are asked per chunk in structured mode when none are
// configured.
var DefaultQuestions = []string{
	"What are the biggest pain points raised by the participants?",
	"What features did the participants request or want? List all of them in detail.",
	"What are the action items for each person in the meeting?",
}

type implSummarizer struct {
	client completion.Client
	opts   Options
	logger logger.Logger
}

// New creates a Summarizer over client
func New(client completion.Client, opts Options, log logger.Logger) Summarizer {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.SummaryWords <= 0 {
		opts.SummaryWords = 100
	}
	if opts.Structured && len(opts.Questions) == 0 {
		opts.Questions = DefaultQuestions
	}
	return &implSummarizer{
		client: client,
		opts:   opts,
		logger: log,
	}
}

// OptionsFromConfig maps config.yaml settings onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:         cfg.Completion.Model,
		Temperature:   cfg.Completion.Temperature,
		SummaryWords:  cfg.Summary.Words,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
		Structured:    cfg.Chunking.Format == config.FormatJSON,
		Questions:     cfg.Chunking.Questions,
	}
}
