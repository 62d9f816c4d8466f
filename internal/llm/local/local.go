// Package local implements llm.Completer against a self-hosted model.
//
// It speaks Ollama's /api/generate format when the endpoint ends with that
// path, and the OpenAI-compatible chat format otherwise (Ollama's
// /v1/chat/completions, vLLM, llama.cpp server).
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/podcaster/internal/config"
	"github.com/nadzzz/podcaster/internal/llm"
)

// Client sends prompts to a local LLM endpoint.
type Client struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates a local client from config.
func New(cfg config.LocalModelConfig, timeout time.Duration) *Client {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	return &Client{
		endpoint: cfg.Endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "local" }

// Complete sends prompt to the local endpoint and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string, opts llm.CompleteOpts) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	var reqBody map[string]any
	if strings.HasSuffix(c.endpoint, "/api/generate") {
		reqBody = map[string]any{
			"model":  model,
			"prompt": prompt,
			"stream": false,
			"options": map[string]any{
				"temperature": opts.Temperature,
				"num_predict": opts.MaxTokens,
			},
		}
	} else {
		reqBody = map[string]any{
			"model": model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": opts.Temperature,
			"max_tokens":  opts.MaxTokens,
			"stream":      false,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local LLM request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("local LLM failed (status %d): %s", resp.StatusCode, respBody)
	}

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	content := extractContent(respData)
	if content == "" {
		return "", fmt.Errorf("empty response from local LLM")
	}

	slog.Debug("local completion complete", "model", model, "text_length", len(content))
	return content, nil
}

// Close is a no-op for the local client.
func (c *Client) Close() error { return nil }

// extractContent pulls the generated text out of either response shape.
func extractContent(data []byte) string {
	// OpenAI-compatible: {"choices": [{"message": {"content": "..."}}]}
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chatResp); err == nil && len(chatResp.Choices) > 0 {
		return chatResp.Choices[0].Message.Content
	}

	// Ollama: {"response": "..."}
	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &ollamaResp); err == nil {
		return ollamaResp.Response
	}

	return ""
}
