package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/chunker"
	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"golang.org/x/sync/errgroup"
)

const (
	PurposeChunk       = "chunk"
	PurposeSummary     = "summary"
	PurposeActionItems = "action_items"
)

// SummarizeChunks sends every chunk with the chunk preamble, at most
// MaxConcurrent at a time. Cancelling ctx stops further calls from being
// issued; calls already sent run to completion (or their own timeout).
// Results come back indexed by chunk, so ordering does not depend on which
// call finishes first.
func (s *implSummarizer) SummarizeChunks(ctx context.Context, chunks []chunker.Chunk) ([]CompletionResult, error) {
	results := make([]CompletionResult, len(chunks))
	if len(chunks) == 0 {
		return results, nil
	}

	preamble := s.chunkPrompt()
	sem := newSemaphore(s.opts.MaxConcurrent)
	g, gctx := errgroup.WithContext(ctx)
	callCtx := context.WithoutCancel(ctx)

	for i, c := range chunks {
		if err := sem.acquire(gctx); err != nil {
			break
		}

		s.logger.Info(ctx, "[%d/%d] Completing chunk (%d entries, size %d)", i+1, len(chunks), len(c.Entries), c.Size)

		g.Go(func() error {
			result, err := s.completeChunk(callCtx, preamble, c)
			if err != nil {
				// The slot is not released: the group context is about to
				// be cancelled and no further chunk may start in its place.
				return err
			}
			results[i] = result
			sem.release()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("chunk completions interrupted: %w", err)
	}

	return results, nil
}

func (s *implSummarizer) completeChunk(ctx context.Context, preamble string, c chunker.Chunk) (CompletionResult, error) {
	text, err := s.client.Complete(ctx, completion.Request{
		Purpose:     PurposeChunk,
		Preamble:    preamble,
		Text:        c.Text(),
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		return CompletionResult{}, &ChunkError{Index: c.Index, Err: err}
	}

	result := CompletionResult{ChunkIndex: c.Index, Text: text}
	if s.opts.Structured {
		answers, err := parseAnswers(text, len(s.opts.Questions))
		if err != nil {
			return CompletionResult{}, &ChunkError{Index: c.Index, Err: err}
		}
		result.Answers = answers
	}
	return result, nil
}

// Aggregate joins results in chunk order. Free-form notes are separated by a
// blank line; structured answers are regrouped under each question.
func (s *implSummarizer) Aggregate(results []CompletionResult) (string, error) {
	if s.opts.Structured {
		return s.collate(results)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return strings.Join(texts, "\n\n"), nil
}

// Finalize issues the summary and action item calls side by side and waits
// for both.
func (s *implSummarizer) Finalize(ctx context.Context, aggregated string) (Final, error) {
	if err := ctx.Err(); err != nil {
		return Final{}, err
	}

	var final Final
	var g errgroup.Group
	callCtx := context.WithoutCancel(ctx)

	g.Go(func() error {
		text, err := s.client.Complete(callCtx, completion.Request{
			Purpose:     PurposeSummary,
			Preamble:    s.summaryPrompt(),
			Text:        aggregated,
			Model:       s.opts.Model,
			Temperature: s.opts.Temperature,
		})
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		final.Summary = strings.TrimSpace(text)
		return nil
	})

	g.Go(func() error {
		text, err := s.client.Complete(callCtx, completion.Request{
			Purpose:     PurposeActionItems,
			Preamble:    actionItemsPrompt,
			Text:        aggregated,
			Model:       s.opts.Model,
			Temperature: s.opts.Temperature,
		})
		if err != nil {
			return fmt.Errorf("action items: %w", err)
		}
		final.ActionItems = strings.TrimSpace(text)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Final{}, err
	}
	return final, nil
}
