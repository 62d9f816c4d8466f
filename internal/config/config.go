// Package config handles loading and validating the podcaster configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nadzzz/podcaster/internal/podcast"
)

// Config is the root configuration for podcaster.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	LLM        LLMConfig        `mapstructure:"llm"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Voices     VoicesConfig     `mapstructure:"voices"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the HTTP service and health check settings.
type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	HealthPort    int    `mapstructure:"health_port"`
	OutputDir     string `mapstructure:"output_dir"`     // directory generated files are written to
	MaxConcurrent int    `mapstructure:"max_concurrent"` // pipeline runs executing at once
}

// TransportsConfig holds optional extra transports.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
}

// GRPCConfig configures the gRPC health transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	Provider    string           `mapstructure:"provider"` // "groq", "openai" or "local"
	Temperature float32          `mapstructure:"temperature"`
	MaxTokens   int              `mapstructure:"max_tokens"`
	Timeout     time.Duration    `mapstructure:"timeout"`
	Groq        OpenAIConfig     `mapstructure:"groq"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	Local       LocalModelConfig `mapstructure:"local"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat completions API.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LocalModelConfig holds self-hosted LLM settings.
type LocalModelConfig struct {
	Endpoint string `mapstructure:"endpoint"` // Ollama /api/generate or an OpenAI-compatible /v1/chat/completions
	Model    string `mapstructure:"model"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Backend    string           `mapstructure:"backend"` // "elevenlabs" or "piper"
	Timeout    time.Duration    `mapstructure:"timeout"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Piper      PiperConfig      `mapstructure:"piper"`
}

// ElevenLabsConfig holds ElevenLabs text-to-speech settings.
type ElevenLabsConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"` // voice ID is appended
	ModelID         string  `mapstructure:"model_id"`
	Stability       float64 `mapstructure:"stability"`
	SimilarityBoost float64 `mapstructure:"similarity_boost"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string `mapstructure:"endpoint"` // host:port
}

// VoicesConfig holds the default voice for each speaker.
type VoicesConfig struct {
	Host  string `mapstructure:"host"`
	Guest string `mapstructure:"guest"`
}

// PipelineConfig controls run behavior.
type PipelineConfig struct {
	OnLineFailure string `mapstructure:"on_line_failure"` // "skip" or "abort"
}

// StorageConfig configures publishing of generated files.
type StorageConfig struct {
	S3 S3Config `mapstructure:"s3"`
}

// S3Config configures the S3 publisher.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"` // custom endpoint for S3-compatible stores
	Prefix    string `mapstructure:"prefix"`
	PathStyle bool   `mapstructure:"path_style"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// A .env file in the working directory is loaded first when present.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./podcaster.yaml, ./configs/podcaster.yaml, /etc/podcaster/podcaster.yaml.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("podcaster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/podcaster")
	}

	// Environment variables: PODCASTER_LLM_PROVIDER, PODCASTER_SERVER_PORT, etc.
	v.SetEnvPrefix("PODCASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.LLM.Groq.APIKey = resolveEnvRef(cfg.LLM.Groq.APIKey)
	cfg.LLM.OpenAI.APIKey = resolveEnvRef(cfg.LLM.OpenAI.APIKey)
	cfg.TTS.ElevenLabs.APIKey = resolveEnvRef(cfg.TTS.ElevenLabs.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.output_dir", ".")
	v.SetDefault("server.max_concurrent", 2)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 800)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.groq.api_key", "${API_KEY_GROQ}")
	v.SetDefault("llm.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq.model", "llama3-8b-8192")
	v.SetDefault("llm.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.local.endpoint", "http://localhost:11434/api/generate")
	v.SetDefault("llm.local.model", "llama3")
	v.SetDefault("tts.backend", "elevenlabs")
	v.SetDefault("tts.timeout", "60s")
	v.SetDefault("tts.elevenlabs.api_key", "${ELABS_API_KEY}")
	v.SetDefault("tts.elevenlabs.base_url", "https://api.elevenlabs.io/v1/text-to-speech/")
	v.SetDefault("tts.elevenlabs.model_id", "eleven_multilingual_v2")
	v.SetDefault("tts.elevenlabs.stability", 0.7)
	v.SetDefault("tts.elevenlabs.similarity_boost", 0.75)
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("voices.host", "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("voices.guest", "UgBBYS2sOqTuMpoF3BR0")
	v.SetDefault("pipeline.on_line_failure", "skip")
	v.SetDefault("storage.s3.enabled", false)
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.path_style", false)
	v.SetDefault("storage.s3.prefix", "podcasts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "groq", "openai", "local":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.TTS.Backend {
	case "elevenlabs", "piper":
	default:
		return fmt.Errorf("unknown tts backend %q", c.TTS.Backend)
	}
	switch c.Pipeline.OnLineFailure {
	case "skip", "abort":
	default:
		return fmt.Errorf("pipeline.on_line_failure must be skip or abort, got %q", c.Pipeline.OnLineFailure)
	}
	if c.Storage.S3.Enabled && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required when s3 publishing is enabled")
	}
	return nil
}

// CheckCredentials reports ErrMissingCredentials when the selected completion
// provider or speech backend has no API key. Local backends need none.
func (c *Config) CheckCredentials() error {
	var missing []string
	switch c.LLM.Provider {
	case "groq":
		if c.LLM.Groq.APIKey == "" {
			missing = append(missing, "llm.groq.api_key")
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			missing = append(missing, "llm.openai.api_key")
		}
	}
	if c.TTS.Backend == "elevenlabs" && c.TTS.ElevenLabs.APIKey == "" {
		missing = append(missing, "tts.elevenlabs.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", podcast.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// DefaultVoices returns the configured voices as a podcast.Voices.
func (c *Config) DefaultVoices() podcast.Voices {
	return podcast.Voices{Host: c.Voices.Host, Guest: c.Voices.Guest}
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the corresponding env var.
// An unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
