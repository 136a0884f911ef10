// Package metrics provides Prometheus metrics for the minutes pipeline.
package metrics

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meeting_minutes"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Run metrics
	RunsTotal    *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	StageReached *prometheus.CounterVec

	// Transcript metrics
	EntriesTotal prometheus.Counter
	ChunksTotal  prometheus.Counter
	ChunkSize    prometheus.Histogram

	// Completion metrics
	CompletionLatency *prometheus.HistogramVec
	CompletionErrors  *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"outcome"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a pipeline run",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		StageReached: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_reached_total",
			Help:      "Pipeline stage transitions",
		}, []string{"stage"}),
		EntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Transcript entries extracted",
		}),
		ChunksTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Chunks packed",
		}),
		ChunkSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_size",
			Help:      "Estimated size of packed chunks",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}),
		CompletionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"purpose"}),
		CompletionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_errors_total",
			Help:      "Failed completion calls",
		}, []string{"purpose", "transient"}),
	}
}

// Instrument wraps a completion client so every call is timed and failures
// are counted.
func (m *Metrics) Instrument(next completion.Client) completion.Client {
	return completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		start := time.Now()
		text, err := next.Complete(ctx, req)
		m.CompletionLatency.WithLabelValues(req.Purpose).Observe(time.Since(start).Seconds())
		if err != nil {
			transient := "false"
			if completion.IsTransient(err) {
				transient = "true"
			}
			m.CompletionErrors.WithLabelValues(req.Purpose, transient).Inc()
		}
		return text, err
	})
}
