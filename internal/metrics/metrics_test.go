package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RunsTotal.WithLabelValues("success").Inc()
	m.EntriesTotal.Add(3)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EntriesTotal); got != 3 {
		t.Errorf("entries_total = %v, want 3", got)
	}

	// A second set on the same registry collides.
	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	New(reg)
}

func TestInstrument(t *testing.T) {
	m := New(prometheus.NewRegistry())

	fail := true
	client := m.Instrument(completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		if fail {
			return "", &completion.ServiceError{Provider: "test", Transient: true, Err: errors.New("429")}
		}
		return "ok", nil
	}))

	if _, err := client.Complete(context.Background(), completion.Request{Purpose: "chunk"}); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	if text, err := client.Complete(context.Background(), completion.Request{Purpose: "chunk"}); err != nil || text != "ok" {
		t.Fatalf("Complete() = %q, %v", text, err)
	}

	if got := testutil.ToFloat64(m.CompletionErrors.WithLabelValues("chunk", "true")); got != 1 {
		t.Errorf("completion_errors_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.CompletionLatency); got != 1 {
		t.Errorf("latency series = %d, want 1", got)
	}
}
