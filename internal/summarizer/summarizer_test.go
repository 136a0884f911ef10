package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/chunker"
	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

// recorder is a completion.Client that remembers every request.
type recorder struct {
	mu       sync.Mutex
	requests []completion.Request
	respond  func(req completion.Request) (string, error)
}

func (r *recorder) Complete(ctx context.Context, req completion.Request) (string, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return r.respond(req)
}

func (r *recorder) byPurpose(purpose string) []completion.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []completion.Request
	for _, req := range r.requests {
		if req.Purpose == purpose {
			out = append(out, req)
		}
	}
	return out
}

func makeChunks(n int) []chunker.Chunk {
	chunks := make([]chunker.Chunk, n)
	for i := range chunks {
		chunks[i] = chunker.Chunk{
			Index:   i,
			Entries: []string{fmt.Sprintf("<v S%d>line %d</v>", i, i)},
			Size:    1,
		}
	}
	return chunks
}

func TestSummarizeChunksOrder(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			client := &recorder{respond: func(req completion.Request) (string, error) {
				// Later chunks answer faster to shuffle completion order.
				var i int
				fmt.Sscanf(req.Text, "<v S%d>", &i)
				time.Sleep(time.Duration(10-i) * time.Millisecond)
				return fmt.Sprintf("notes %d", i), nil
			}}

			s := New(client, Options{Model: "m", MaxConcurrent: concurrency}, logger.Nop())
			results, err := s.SummarizeChunks(context.Background(), makeChunks(6))
			if err != nil {
				t.Fatalf("SummarizeChunks() error = %v", err)
			}
			if len(results) != 6 {
				t.Fatalf("len(results) = %d", len(results))
			}
			for i, r := range results {
				if r.ChunkIndex != i || r.Text != fmt.Sprintf("notes %d", i) {
					t.Errorf("results[%d] = %+v", i, r)
				}
			}

			for _, req := range client.byPurpose(PurposeChunk) {
				if req.Model != "m" || !strings.Contains(req.Preamble, "meeting minute taker") {
					t.Errorf("chunk request = %+v", req)
				}
			}
		})
	}
}

func TestSummarizeChunksBoundedConcurrency(t *testing.T) {
	var inFlight, peak int32
	client := completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "ok", nil
	})

	s := New(client, Options{MaxConcurrent: 2}, logger.Nop())
	if _, err := s.SummarizeChunks(context.Background(), makeChunks(8)); err != nil {
		t.Fatal(err)
	}
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestSummarizeChunksFailure(t *testing.T) {
	boom := &completion.ServiceError{Provider: "test", Err: errors.New("401 unauthorized")}
	var calls int32
	client := completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		if strings.Contains(req.Text, "S2") {
			return "", boom
		}
		return "ok", nil
	})

	s := New(client, Options{}, logger.Nop())
	_, err := s.SummarizeChunks(context.Background(), makeChunks(5))

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("error = %v, want *ChunkError", err)
	}
	if chunkErr.Index != 2 {
		t.Errorf("Index = %d, want 2", chunkErr.Index)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the service error")
	}
	// Sequential mode stops issuing calls after the failure.
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSummarizeChunksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	client := completion.Func(func(callCtx context.Context, req completion.Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		// The call in flight is not interrupted.
		if callCtx.Err() != nil {
			t.Error("in-flight call saw cancellation")
		}
		return "ok", nil
	})

	s := New(client, Options{}, logger.Nop())
	_, err := s.SummarizeChunks(ctx, makeChunks(4))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSummarizeChunksEmpty(t *testing.T) {
	client := completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		t.Error("no call expected")
		return "", nil
	})
	results, err := New(client, Options{}, logger.Nop()).SummarizeChunks(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("SummarizeChunks(nil) = %v, %v", results, err)
	}
}

func TestAggregate(t *testing.T) {
	s := New(nil, Options{}, logger.Nop())
	got, err := s.Aggregate([]CompletionResult{
		{ChunkIndex: 0, Text: "first"},
		{ChunkIndex: 1, Text: "second"},
		{ChunkIndex: 2, Text: "third"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "first\n\nsecond\n\nthird" {
		t.Errorf("Aggregate() = %q", got)
	}

	if got, _ := s.Aggregate(nil); got != "" {
		t.Errorf("Aggregate(nil) = %q, want empty", got)
	}
}

func TestFinalize(t *testing.T) {
	client := &recorder{respond: func(req completion.Request) (string, error) {
		switch req.Purpose {
		case PurposeSummary:
			return "  The team agreed to fix printing.  ", nil
		case PurposeActionItems:
			return "- Kevin: fix printing\n", nil
		}
		return "", errors.New("unexpected purpose")
	}}

	s := New(client, Options{Model: "m", SummaryWords: 42}, logger.Nop())
	final, err := s.Finalize(context.Background(), "aggregated notes")
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if final.Summary != "The team agreed to fix printing." {
		t.Errorf("Summary = %q", final.Summary)
	}
	if final.ActionItems != "- Kevin: fix printing" {
		t.Errorf("ActionItems = %q", final.ActionItems)
	}

	summary := client.byPurpose(PurposeSummary)
	actions := client.byPurpose(PurposeActionItems)
	if len(summary) != 1 || len(actions) != 1 {
		t.Fatalf("requests = %+v", client.requests)
	}
	if !strings.Contains(summary[0].Preamble, "at most 42 words") {
		t.Errorf("summary preamble = %q", summary[0].Preamble)
	}
	if !strings.Contains(actions[0].Preamble, "bulleted list") {
		t.Errorf("action items preamble = %q", actions[0].Preamble)
	}
	if summary[0].Text != "aggregated notes" || actions[0].Text != "aggregated notes" {
		t.Error("final calls must both read the aggregated text")
	}
}

func TestFinalizeFailure(t *testing.T) {
	boom := errors.New("503")
	var calls int32
	client := completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		if req.Purpose == PurposeActionItems {
			return "", boom
		}
		return "summary", nil
	})

	_, err := New(client, Options{}, logger.Nop()).Finalize(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped 503", err)
	}
	if !strings.Contains(err.Error(), "action items") {
		t.Errorf("error %q should name the failing call", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, both calls must complete", calls)
	}
}
