package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	name   string
	text   string
	err    error
	prompt string
	opts   CompleteOpts
	calls  int
}

func (f *fakeCompleter) Name() string { return f.name }

func (f *fakeCompleter) Complete(_ context.Context, prompt string, opts CompleteOpts) (string, error) {
	f.calls++
	f.prompt = prompt
	f.opts = opts
	return f.text, f.err
}

func (f *fakeCompleter) Close() error { return nil }

func TestRequestScriptDefaultProvider(t *testing.T) {
	groq := &fakeCompleter{name: "groq", text: "six lines"}
	local := &fakeCompleter{name: "local"}
	r := NewRequester("groq", 0.7, 800, groq, local)

	text, err := r.RequestScript(context.Background(), "space exploration", "", "")
	require.NoError(t, err)
	assert.Equal(t, "six lines", text)
	assert.Equal(t, 1, groq.calls)
	assert.Zero(t, local.calls)
	assert.Contains(t, groq.prompt, "about space exploration.")
	assert.Equal(t, CompleteOpts{Temperature: 0.7, MaxTokens: 800}, groq.opts)
}

func TestRequestScriptOverrides(t *testing.T) {
	groq := &fakeCompleter{name: "groq"}
	local := &fakeCompleter{name: "local", text: "ok"}
	r := NewRequester("groq", 0.7, 800, groq, local)

	_, err := r.RequestScript(context.Background(), "t", "mistral", "local")
	require.NoError(t, err)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, "mistral", local.opts.Model)
}

func TestRequestScriptFailureIsNotRetried(t *testing.T) {
	groq := &fakeCompleter{name: "groq", err: errors.New("status 500")}
	r := NewRequester("groq", 0.7, 800, groq)

	_, err := r.RequestScript(context.Background(), "t", "", "")
	require.Error(t, err)
	assert.Equal(t, 1, groq.calls)
}

func TestRequestScriptUnknownProvider(t *testing.T) {
	r := NewRequester("groq", 0.7, 800, &fakeCompleter{name: "groq"}, &fakeCompleter{name: "openai"})

	_, err := r.RequestScript(context.Background(), "t", "", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"anthropic"`)
	assert.Contains(t, err.Error(), "groq, openai")
}
