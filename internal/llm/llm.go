// Package llm defines the completion backend interface and the script
// requester that drives it.
//
// podcaster ships with two backends: an OpenAI-compatible client used for
// the hosted providers (Groq, OpenAI) and a local client for self-hosted
// models (Ollama, llama.cpp server, vLLM).
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nadzzz/podcaster/internal/script"
)

// CompleteOpts controls a single completion call.
type CompleteOpts struct {
	// Model overrides the backend's default model.
	Model string

	// Temperature is the sampling temperature.
	Temperature float32

	// MaxTokens bounds the generation length.
	MaxTokens int
}

// Completer sends a single user prompt to a completion endpoint.
type Completer interface {
	// Name returns the provider identifier (e.g., "groq", "openai", "local").
	Name() string

	// Complete returns the text of the first completion choice.
	Complete(ctx context.Context, prompt string, opts CompleteOpts) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Requester builds the podcast prompt and routes it to a provider.
type Requester struct {
	backends    map[string]Completer
	provider    string
	temperature float32
	maxTokens   int
}

// NewRequester creates a Requester. provider names the backend used when a
// request does not pick one.
func NewRequester(provider string, temperature float32, maxTokens int, backends ...Completer) *Requester {
	bm := make(map[string]Completer, len(backends))
	for _, b := range backends {
		bm[b.Name()] = b
	}
	return &Requester{
		backends:    bm,
		provider:    provider,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// RequestScript asks the completion endpoint for a six-line dialogue about
// topic. model and provider are optional overrides. Failures are logged and
// returned; nothing is retried.
func (r *Requester) RequestScript(ctx context.Context, topic, model, provider string) (string, error) {
	if provider == "" {
		provider = r.provider
	}
	backend, ok := r.backends[provider]
	if !ok {
		return "", fmt.Errorf("unknown llm provider %q (available: %s)", provider, strings.Join(r.Providers(), ", "))
	}

	logger := slog.With("provider", provider, "model", model)
	logger.Info("calling LLM API", "topic", topic)

	text, err := backend.Complete(ctx, script.Prompt(topic), CompleteOpts{
		Model:       model,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		logger.Error("LLM API call failed", "error", err)
		return "", err
	}

	logger.Debug("LLM API call complete", "text_length", len(text))
	return text, nil
}

// Providers returns the registered provider names, sorted.
func (r *Requester) Providers() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every backend.
func (r *Requester) Close() error {
	var first error
	for _, b := range r.backends {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
