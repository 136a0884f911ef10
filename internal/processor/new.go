package processor

import (
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/metrics"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/tokenizer"
)

type implProcessor struct {
	cfg        *config.Config
	estimator  tokenizer.Estimator
	summarizer summarizer.Summarizer
	metrics    *metrics.Metrics
	logger     logger.Logger
	now        func() time.Time
}

// New creates a new Processor instance
func New(cfg *config.Config, est tokenizer.Estimator, sum summarizer.Summarizer, m *metrics.Metrics, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		estimator:  est,
		summarizer: sum,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}
