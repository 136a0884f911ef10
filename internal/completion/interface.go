package completion

import "context"

// Request is one completion call: a fixed instruction preamble plus the text
// it applies to.
type Request struct {
	// Purpose labels the call for logs and metrics: chunk, summary or
	// action_items.
	Purpose     string
	Preamble    string
	Text        string
	Model       string
	Temperature float32
}

// Client sends a Request to a text-completion service and returns the
// generated text. Failures are reported as *ServiceError.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
