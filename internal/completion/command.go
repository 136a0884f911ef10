package completion

import (
	"context"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

const providerCommand = "command"

// CommandClient runs a local model binary (llama.cpp, ollama, ...) once per
// request. The preamble and the text are written to stdin separated by a
// blank line; stdout is the completion.
type CommandClient struct {
	executor executor.Executor
	binary   string
	args     []string
	timeout  time.Duration
}

func NewCommandClient(exec executor.Executor, binary string, args []string, timeout time.Duration) *CommandClient {
	return &CommandClient{
		executor: exec,
		binary:   binary,
		args:     args,
		timeout:  timeout,
	}
}

func (c *CommandClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(c.args))
	for _, a := range c.args {
		args = append(args, strings.ReplaceAll(a, "{model}", req.Model))
	}

	input := strings.TrimSpace(req.Preamble) + "\n\n" + req.Text
	out, err := c.executor.ExecuteWithInput(ctx, strings.NewReader(input), c.binary, args...)
	if err != nil {
		// A local process failing is not going to fix itself on retry,
		// unless it ran out of time.
		return "", newServiceError(providerCommand, ctx.Err() == context.DeadlineExceeded, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", newServiceError(providerCommand, false, ErrEmptyResponse)
	}
	return out, nil
}
