package completion

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const providerOpenAI = "openai"

// OpenAIClient talks to the OpenAI chat completions API, or any server that
// speaks it when BaseURL is set.
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
}

func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := req.Temperature
	if temperature == 0 {
		// go-openai drops a zero temperature from the request body.
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Preamble},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", newServiceError(providerOpenAI, openAITransient(err), err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", newServiceError(providerOpenAI, false, ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func openAITransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientStatus(reqErr.HTTPStatusCode)
	}
	// Anything else never reached the API: dial, TLS, timeouts.
	return true
}
