package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

// Client issues one completion request and returns the raw model output.
// Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the model answers with no choices.
var ErrEmptyResponse = errors.New("llm returned empty response")

// ErrFatal marks request errors that retrying cannot fix (bad key, bad
// request). Callers fall back immediately instead of burning attempts.
var ErrFatal = errors.New("llm request not retryable")

// Options configures an OpenAI-compatible client. BaseURL may point at any
// OpenAI-compatible server (vLLM, Ollama, a gateway).
type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	Temperature float32

	// RetryInterval is the initial backoff delay. Zero means one second.
	RetryInterval time.Duration
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint with
// exponential backoff on transient failures.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	maxAttempts int
	temperature float32
	interval    time.Duration
	log         *slog.Logger
}

// NewOpenAIClient builds a client from options. The API key is required;
// model and timeout fall back to sane values.
func NewOpenAIClient(opts Options, log *slog.Logger) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("llm: model is required")
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		timeout:     timeout,
		maxAttempts: attempts,
		temperature: opts.Temperature,
		interval:    interval,
		log:         log,
	}, nil
}

// Complete sends the prompt as a single user message and returns the first
// choice. Transient failures (429, 5xx, timeouts, connection errors) are
// retried with exponential backoff up to MaxAttempts; auth and request
// errors fail immediately wrapped in ErrFatal.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.interval),
			backoff.WithMaxInterval(30*time.Second),
		),
		uint64(c.maxAttempts-1),
	), ctx)

	var out string
	attempt := 0
	op := func() error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(fmt.Errorf("%w: %v", ErrFatal, err))
			}
			c.log.Debug("llm.retry", "attempt", attempt, "error", err)
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(ErrEmptyResponse)
		}
		out = resp.Choices[0].Message.Content
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return out, nil
}

// retryable classifies an API error: rate limits, server errors, timeouts
// and network failures are transient; auth and malformed requests are not.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return true
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return false
		}
		return apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
