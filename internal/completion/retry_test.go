package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

func TestWithRetry(t *testing.T) {
	transient := &ServiceError{Provider: "test", Transient: true, Err: errors.New("429")}
	permanent := &ServiceError{Provider: "test", Err: errors.New("401")}

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{
			name:      "succeeds after transient failures",
			failures:  []error{transient, transient},
			attempts:  3,
			wantCalls: 3,
		},
		{
			name:      "gives up after max attempts",
			failures:  []error{transient, transient, transient},
			attempts:  3,
			wantCalls: 3,
			wantErr:   transient,
		},
		{
			name:      "permanent error is not retried",
			failures:  []error{permanent},
			attempts:  3,
			wantCalls: 1,
			wantErr:   permanent,
		},
		{
			name:      "single attempt disables retry",
			failures:  []error{transient},
			attempts:  1,
			wantCalls: 1,
			wantErr:   transient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			next := Func(func(ctx context.Context, req Request) (string, error) {
				calls++
				if calls <= len(tt.failures) {
					return "", tt.failures[calls-1]
				}
				return "ok", nil
			})

			client := WithRetry(next, tt.attempts, time.Millisecond, logger.Nop())
			text, err := client.Complete(context.Background(), Request{})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || text != "ok" {
				t.Errorf("Complete() = %q, %v", text, err)
			}
		})
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	next := Func(func(ctx context.Context, req Request) (string, error) {
		calls++
		cancel()
		return "", &ServiceError{Transient: true, Err: errors.New("503")}
	})

	_, err := WithRetry(next, 5, time.Hour, logger.Nop()).Complete(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCanceledIsNeverTransient(t *testing.T) {
	err := newServiceError("openai", true, context.Canceled)
	if IsTransient(err) {
		t.Error("a canceled call must not be retried")
	}
}
