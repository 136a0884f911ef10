package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

type generateFunc func(ctx context.Context, apiKey string, req Request) (string, error)

// GeminiClient calls the Gemini API and rotates through its API keys when one
// is rate limited.
type GeminiClient struct {
	apiKeys []string
	baseURL string
	timeout time.Duration
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client

	generate generateFunc
}

func NewGeminiClient(apiKeys []string, baseURL string, timeout time.Duration, log logger.Logger) (*GeminiClient, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("gemini: at least one API key is required")
	}
	c := &GeminiClient{
		apiKeys: apiKeys,
		baseURL: baseURL,
		timeout: timeout,
		logger:  log,
		clients: make(map[string]*genai.Client),
	}
	c.generate = c.generateContent
	return c, nil
}

// Complete tries each key at most once, rotating on 429 / quota errors.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr error
	for range len(c.apiKeys) {
		keyIndex, key := c.key()

		text, err := c.generate(ctx, key, req)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", newServiceError(providerGemini, false, ErrEmptyResponse)
			}
			return text, nil
		}

		if geminiRateLimited(err) {
			c.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", keyIndex+1)
			c.rotateKey(keyIndex)
			lastErr = err
			continue
		}
		return "", newServiceError(providerGemini, geminiTransient(err), fmt.Errorf("generate content: %w", err))
	}

	return "", newServiceError(providerGemini, true, fmt.Errorf("all API keys exhausted: %w", lastErr))
}

func (c *GeminiClient) generateContent(ctx context.Context, apiKey string, req Request) (string, error) {
	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Preamble, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.Text(), nil
}

func (c *GeminiClient) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[apiKey]; ok {
		return client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cc.HTTPOptions.BaseURL = c.baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	c.clients[apiKey] = client
	return client, nil
}

func (c *GeminiClient) key() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey, c.apiKeys[c.currentKey]
}

// rotateKey advances past from; a concurrent caller may already have moved on.
func (c *GeminiClient) rotateKey(from int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == from {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	}
}

func geminiRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	return isRateLimited(err.Error())
}

func geminiTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.Code)
	}
	return !errors.Is(err, context.Canceled)
}
