package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nadzzz/podcaster/internal/config"
	"github.com/nadzzz/podcaster/internal/llm"
	localllm "github.com/nadzzz/podcaster/internal/llm/local"
	openaillm "github.com/nadzzz/podcaster/internal/llm/openai"
	"github.com/nadzzz/podcaster/internal/pipeline"
	"github.com/nadzzz/podcaster/internal/storage"
	"github.com/nadzzz/podcaster/internal/tts"
	"github.com/nadzzz/podcaster/internal/tts/elevenlabs"
	"github.com/nadzzz/podcaster/internal/tts/piper"
)

// loadConfig loads configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetupLogging(cfg.Logging)
	return cfg, nil
}

// components are the long-lived pieces a pipeline is built from.
type components struct {
	requester *llm.Requester
	synth     tts.Synthesizer
	pipeline  *pipeline.Pipeline
}

func (c *components) Close() {
	if err := c.requester.Close(); err != nil {
		slog.Warn("closing llm backends", "error", err)
	}
	if err := c.synth.Close(); err != nil {
		slog.Warn("closing tts backend", "error", err)
	}
}

// buildPipeline wires every backend named in cfg into a Pipeline.
func buildPipeline(cfg *config.Config) (*components, error) {
	requester := llm.NewRequester(cfg.LLM.Provider, cfg.LLM.Temperature, cfg.LLM.MaxTokens,
		openaillm.New("groq", cfg.LLM.Groq, cfg.LLM.Timeout),
		openaillm.New("openai", cfg.LLM.OpenAI, cfg.LLM.Timeout),
		localllm.New(cfg.LLM.Local, cfg.LLM.Timeout),
	)
	slog.Info("using llm provider", "provider", cfg.LLM.Provider, "available", requester.Providers())

	var synth tts.Synthesizer
	switch cfg.TTS.Backend {
	case "elevenlabs":
		synth = elevenlabs.New(cfg.TTS.ElevenLabs, cfg.TTS.Timeout)
		slog.Info("using ElevenLabs TTS", "model_id", cfg.TTS.ElevenLabs.ModelID)
	case "piper":
		synth = piper.New(cfg.TTS.Piper, cfg.TTS.Timeout)
		slog.Info("using Piper TTS", "endpoint", cfg.TTS.Piper.Endpoint)
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.TTS.Backend)
	}

	opts := pipeline.Options{
		Voices:  cfg.DefaultVoices(),
		Policy:  pipeline.Policy(cfg.Pipeline.OnLineFailure),
		TempDir: os.TempDir(),
	}
	if cfg.Storage.S3.Enabled {
		pub, err := storage.NewS3Publisher(cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		opts.Publisher = pub
		slog.Info("publishing outputs to s3", "bucket", cfg.Storage.S3.Bucket, "prefix", cfg.Storage.S3.Prefix)
	}

	return &components{
		requester: requester,
		synth:     synth,
		pipeline:  pipeline.New(requester, synth, opts),
	}, nil
}
