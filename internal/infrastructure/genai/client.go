package genai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/infrastructure/metrics"
)

// Client wraps the external completion API behind the chat service's
// Completer interface. Every call carries its own deadline so a slow
// backend degrades into the deterministic fallback instead of hanging
// the request.
type Client struct {
	api     *openai.Client
	timeout time.Duration
	enabled bool
}

func NewClient(cfg *config.Config) *Client {
	if !cfg.AIConfigured() {
		return &Client{enabled: false}
	}

	clientCfg := openai.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		clientCfg.BaseURL = cfg.AIBaseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(clientCfg),
		timeout: cfg.AITimeout,
		enabled: true,
	}
}

// Enabled reports whether a credential was configured at startup.
func (c *Client) Enabled() bool {
	return c.enabled
}

func (c *Client) Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.RecordCompletion("error", time.Since(start).Seconds())
		return openai.ChatCompletionResponse{}, err
	}
	metrics.RecordCompletion("ok", time.Since(start).Seconds())
	return resp, nil
}
