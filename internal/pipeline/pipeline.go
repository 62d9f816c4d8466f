// Package pipeline implements the podcast generation pipeline.
//
// A run requests a script for the topic, persists the raw text, parses it
// into six dialogue lines, voices them alternately with the host and guest
// voices and exports the joined track. Every step runs in sequence; the
// script file is written before parsing and is never rolled back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/podcaster/internal/podcast"
	"github.com/nadzzz/podcaster/internal/script"
	"github.com/nadzzz/podcaster/internal/tts"
)

const (
	DefaultAudioPath  = "conversation.wav"
	DefaultScriptPath = "script.txt"
)

// ScriptRequester produces the raw script text for a topic.
type ScriptRequester interface {
	RequestScript(ctx context.Context, topic, model, provider string) (string, error)
}

// Publisher copies finished files somewhere shareable and returns their URLs.
type Publisher interface {
	Publish(ctx context.Context, runID string, paths ...string) ([]string, error)
}

// Options configures a Pipeline.
type Options struct {
	// Voices are the defaults used when a request does not override them.
	Voices podcast.Voices

	// Policy decides whether a failed line is skipped or aborts the run.
	Policy Policy

	// TempDir is where per-run scratch directories are created.
	TempDir string

	// Publisher is optional.
	Publisher Publisher
}

// Pipeline is the canonical podcast generator shared by every front end.
type Pipeline struct {
	requester ScriptRequester
	assembler *Assembler
	voices    podcast.Voices
	publisher Publisher
	outputs   pathLocks
}

// New creates a Pipeline.
func New(requester ScriptRequester, synth tts.Synthesizer, opts Options) *Pipeline {
	return &Pipeline{
		requester: requester,
		assembler: NewAssembler(synth, opts.Policy, opts.TempDir),
		voices:    opts.Voices,
		publisher: opts.Publisher,
	}
}

// Generate runs the whole pipeline for req.
func (p *Pipeline) Generate(ctx context.Context, req podcast.Request) (*podcast.Result, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, podcast.ErrEmptyTopic
	}
	if req.OutputAudio == "" {
		req.OutputAudio = DefaultAudioPath
	}
	if req.OutputScript == "" {
		req.OutputScript = DefaultScriptPath
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := slog.With("run_id", runID, "topic", req.Topic)

	// Runs sharing an output file execute one after the other so the script
	// and track on disk always come from the same run.
	release := p.outputs.acquire(req.OutputScript, req.OutputAudio)
	defer release()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("podcast generation started")

	// Step 1: request the script.
	raw, err := p.requester.RequestScript(ctx, req.Topic, req.Model, req.Provider)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = errors.New("empty completion")
	}
	if err != nil {
		return nil, &podcast.GenerationError{Provider: req.Provider, Err: err}
	}
	logger.Debug("script generated", "text_length", len(raw))

	// Step 2: persist the raw text verbatim.
	if err := writeScript(req.OutputScript, raw); err != nil {
		return nil, err
	}

	// Step 3: parse into dialogue lines.
	lines, err := script.Parse(raw)
	if err != nil {
		logger.Error("script validation failed", "error", err)
		return nil, err
	}

	// Step 4: voice and assemble.
	voices := podcast.Voices{Host: req.HostVoice, Guest: req.GuestVoice}.Merge(p.voices)
	assembly, err := p.assembler.Assemble(ctx, runID, lines, voices, req.OutputAudio)
	if err != nil {
		logger.Error("audio assembly failed", "error", err)
		return nil, err
	}

	result := &podcast.Result{
		RunID:      runID,
		ScriptPath: req.OutputScript,
		AudioPath:  req.OutputAudio,
		Lines:      assembly.Lines,
		Duration:   assembly.Duration,
	}

	// Step 5: publish, if configured.
	if p.publisher != nil {
		urls, err := p.publisher.Publish(ctx, runID, result.ScriptPath, result.AudioPath)
		if err != nil {
			return nil, fmt.Errorf("publishing outputs: %w", err)
		}
		result.ScriptURL, result.AudioURL = urls[0], urls[1]
	}

	logger.Info("podcast generation complete",
		"duration", time.Since(start),
		"segments", result.Segments(),
		"skipped", len(result.Skipped()))
	return result, nil
}

func writeScript(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating script directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}
	return nil
}
