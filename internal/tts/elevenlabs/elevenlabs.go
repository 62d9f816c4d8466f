// Package elevenlabs implements the TTS Synthesizer using the ElevenLabs
// text-to-speech REST API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nadzzz/podcaster/internal/config"
	"github.com/nadzzz/podcaster/internal/tts"
)

// Synthesizer calls POST {base_url}{voice_id} for every line.
type Synthesizer struct {
	apiKey   string
	baseURL  string
	modelID  string
	settings voiceSettings
	client   *http.Client
}

// New creates an ElevenLabs synthesizer from config.
func New(cfg config.ElevenLabsConfig, timeout time.Duration) *Synthesizer {
	return &Synthesizer{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		modelID: cfg.ModelID,
		settings: voiceSettings{
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
		},
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier.
func (s *Synthesizer) Name() string { return "elevenlabs" }

// Synthesize sends text to the speech endpoint and returns the audio body.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (*tts.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if voice == "" {
		return nil, fmt.Errorf("no voice id for synthesis")
	}

	bodyBytes, err := json.Marshal(speechRequest{
		Text:          text,
		ModelID:       s.modelID,
		VoiceSettings: s.settings,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+voice, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating speech request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech failed (status %d): %s", resp.StatusCode, respBody)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	slog.Debug("elevenlabs synthesize", "voice", voice, "text_length", len(text), "audio_bytes", len(audio))
	return &tts.Result{Audio: audio, ContentType: contentType}, nil
}

// Close is a no-op; the HTTP client has no per-synthesizer state.
func (s *Synthesizer) Close() error { return nil }

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}
