package completion

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

const maxBackoff = time.Minute

// Retrying retries transient ServiceErrors with exponential backoff. Permanent
// errors and cancellation return immediately.
type Retrying struct {
	next           Client
	maxAttempts    int
	initialBackoff time.Duration
	logger         logger.Logger
}

func WithRetry(next Client, maxAttempts int, initialBackoff time.Duration, log logger.Logger) Client {
	if maxAttempts <= 1 {
		return next
	}
	return &Retrying{
		next:           next,
		maxAttempts:    maxAttempts,
		initialBackoff: initialBackoff,
		logger:         log,
	}
}

func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	backoff := r.initialBackoff
	var err error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var text string
		text, err = r.next.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		if !IsTransient(err) || attempt == r.maxAttempts {
			return "", err
		}

		r.logger.Warn(ctx, "Completion attempt %d/%d failed, retrying in %s: %v", attempt, r.maxAttempts, backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return "", err
}
