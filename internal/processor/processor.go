package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-minutes/internal/chunker"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Run orchestrates the whole pipeline for one transcript
func (p *implProcessor) Run(ctx context.Context, source, text string, display DisplayFunc) (*summarizer.Minutes, error) {
	startTime := time.Now()
	m := &summarizer.Minutes{
		RunID:  uuid.NewString(),
		Source: source,
		Stage:  StageIdle.String(),
	}
	ctx = logger.WithFields(ctx, map[string]string{"run_id": m.RunID, "source": source})

	p.logger.Info(ctx, "Starting minutes run: %s", source)

	// Step 1: Split into entries, the first one carries the file header
	entries := transcript.DropHeader(transcript.Split(text))
	m.Entries = len(entries)
	p.metrics.EntriesTotal.Add(float64(len(entries)))
	p.advance(ctx, m, StageEntriesExtracted)

	// Step 2: Pack entries into chunks
	chunks, err := chunker.Pack(entries, p.cfg.Chunking.MaxSize, p.estimator)
	if err != nil {
		return m, p.fail(ctx, m, startTime, StageChunked, err)
	}
	m.Chunks = len(chunks)
	for _, c := range chunks {
		p.metrics.ChunkSize.Observe(float64(c.Size))
		if c.Oversized(p.cfg.Chunking.MaxSize) {
			p.logger.Warn(ctx, "Chunk %d is a single entry of size %d, over the %d budget", c.Index, c.Size, p.cfg.Chunking.MaxSize)
		}
	}
	p.metrics.ChunksTotal.Add(float64(len(chunks)))
	p.advance(ctx, m, StageChunked)

	if len(chunks) > 0 {
		// Step 3: One completion per chunk
		results, err := p.summarizer.SummarizeChunks(ctx, chunks)
		if err != nil {
			return m, p.fail(ctx, m, startTime, StagePerChunkCompletionsDone, err)
		}
		p.advance(ctx, m, StagePerChunkCompletionsDone)

		// Step 4: Aggregate per-chunk answers
		m.Aggregated, err = p.summarizer.Aggregate(results)
		if err != nil {
			return m, p.fail(ctx, m, startTime, StageAggregated, err)
		}
		p.advance(ctx, m, StageAggregated)

		// Step 5: Summary and action items
		final, err := p.summarizer.Finalize(ctx, m.Aggregated)
		if err != nil {
			return m, p.fail(ctx, m, startTime, StageFinalCompletionsDone, err)
		}
		m.Summary = final.Summary
		m.ActionItems = final.ActionItems
		p.advance(ctx, m, StageFinalCompletionsDone)
	} else {
		p.logger.Warn(ctx, "No entries found in %s, nothing to send", source)
		p.advance(ctx, m, StagePerChunkCompletionsDone)
		p.advance(ctx, m, StageAggregated)
		p.advance(ctx, m, StageFinalCompletionsDone)
	}

	// Step 6: Hand over to display
	if display != nil {
		if err := display(ctx, m); err != nil {
			return m, p.fail(ctx, m, startTime, StageDisplayed, err)
		}
		p.advance(ctx, m, StageDisplayed)
	}

	m.Elapsed = time.Since(startTime)
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(m.Elapsed.Seconds())

	p.logger.Info(ctx, "Minutes completed: %d entries, %d chunks in %s", m.Entries, m.Chunks, m.Elapsed)
	return m, nil
}

// Process runs the transcript at path, writes reports and archives the input
func (p *implProcessor) Process(ctx context.Context, path string) error {
	text, err := transcript.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, err := p.Run(ctx, name, text, p.WriteReports); err != nil {
		return err
	}

	if _, err := p.archive(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to archive %s: %v", path, err)
	}
	return nil
}

func (p *implProcessor) advance(ctx context.Context, m *summarizer.Minutes, stage Stage) {
	m.Stage = stage.String()
	p.metrics.StageReached.WithLabelValues(stage.String()).Inc()
	p.logger.Debug(ctx, "Stage reached: %s", stage)
}

func (p *implProcessor) fail(ctx context.Context, m *summarizer.Minutes, startTime time.Time, stage Stage, err error) error {
	se := newStageError(stage, err)
	m.Stage = StageFailed.String()
	m.Elapsed = time.Since(startTime)

	p.metrics.StageReached.WithLabelValues(StageFailed.String()).Inc()
	p.metrics.RunsTotal.WithLabelValues("failed").Inc()
	p.metrics.RunDuration.Observe(m.Elapsed.Seconds())

	p.logger.Error(ctx, "Minutes run failed: %v", se)
	return se
}
