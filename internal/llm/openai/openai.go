// Package openai implements llm.Completer on top of any OpenAI-compatible
// Chat Completions API. The same client serves OpenAI itself and Groq, which
// only differ in base URL, key and model.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/podcaster/internal/config"
	"github.com/nadzzz/podcaster/internal/llm"
)

// Client is an llm.Completer for a hosted OpenAI-compatible provider.
type Client struct {
	name   string
	model  string
	client *goopenai.Client
}

// New creates a client for the provider called name.
func New(name string, cfg config.OpenAIConfig, timeout time.Duration) *Client {
	cc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		name:   name,
		model:  cfg.Model,
		client: goopenai.NewClientWithConfig(cc),
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return c.name }

// Complete sends prompt as a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, opts llm.CompleteOpts) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat request: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s chat API", c.name)
	}

	slog.Debug("chat completion complete", "provider", c.name, "model", model,
		"total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op for the hosted client.
func (c *Client) Close() error { return nil }
