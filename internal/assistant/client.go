package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/caremate-health/caremate/pkg/logging"
)

// completionAPI is the slice of the go-openai client the gateway needs.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config describes how to reach the completion service.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// Client submits conversations to an OpenAI-compatible chat-completions API.
// One attempt per call; retry policy belongs to the caller.
type Client struct {
	api     completionAPI
	model   string
	timeout time.Duration

	temperature float32
	maxTokens   int
	topP        float32

	breaker *breaker
	logger  *logging.Logger
}

// NewClient validates the configuration and returns a ready-to-use client.
func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("assistant: API key required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "llama3-70b-8192"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		topP:        cfg.TopP,
		logger:      logger,
	}, nil
}

// WithBreaker attaches a failure counter that short-circuits calls after
// threshold consecutive failures, for the duration of cooldown.
func (c *Client) WithBreaker(threshold int, cooldown time.Duration) *Client {
	c.breaker = newBreaker(threshold, cooldown)
	return c
}

// Reply submits the conversation and returns the assistant's text.
func (c *Client) Reply(ctx context.Context, conv Conversation) (string, error) {
	if len(conv.Messages) == 0 {
		return "", &UpstreamError{Kind: KindMalformedResponse, Err: errors.New("empty conversation")}
	}

	if c.breaker != nil && !c.breaker.allow() {
		return "", &UpstreamError{Kind: KindServerError, Err: errors.New("circuit open after repeated upstream failures")}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        c.topP,
	})
	if err != nil {
		upstreamErr := classify(err)
		c.record(false)
		c.logger.Error("completion request failed", "kind", upstreamErr.Kind, "error", err)
		return "", upstreamErr
	}

	if len(resp.Choices) == 0 {
		c.record(false)
		return "", &UpstreamError{Kind: KindMalformedResponse, Err: errors.New("no choices in completion response")}
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		c.record(false)
		return "", &UpstreamError{Kind: KindMalformedResponse, Err: errors.New("empty completion text")}
	}

	c.record(true)
	return reply, nil
}

func (c *Client) record(success bool) {
	if c.breaker == nil {
		return
	}
	if success {
		c.breaker.recordSuccess()
	} else {
		c.breaker.recordFailure()
	}
}

// classify maps a go-openai error to the upstream taxonomy.
func classify(err error) *UpstreamError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode > 0 {
			return &UpstreamError{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UpstreamError{Kind: KindNetworkError, Err: err}
	}
	return &UpstreamError{Kind: KindNetworkError, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindServerError
	}
}
