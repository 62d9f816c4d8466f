package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/podcaster/internal/config"
)

func testConfig(baseURL string) config.ElevenLabsConfig {
	return config.ElevenLabsConfig{
		APIKey:          "xi-test",
		BaseURL:         baseURL + "/v1/text-to-speech/",
		ModelID:         "eleven_multilingual_v2",
		Stability:       0.7,
		SimilarityBoost: 0.75,
	}
}

func TestSynthesizePayload(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-123", r.URL.Path)
		assert.Equal(t, "xi-test", r.Header.Get("xi-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3-bytes"))
	}))
	defer srv.Close()

	s := New(testConfig(srv.URL), 0)
	res, err := s.Synthesize(context.Background(), "Hello there", "voice-123")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-fake-mp3-bytes"), res.Audio)
	assert.Equal(t, ".mp3", res.Ext())

	assert.Equal(t, "Hello there", body["text"])
	assert.Equal(t, "eleven_multilingual_v2", body["model_id"])
	settings := body["voice_settings"].(map[string]any)
	assert.InDelta(t, 0.7, settings["stability"], 1e-9)
	assert.InDelta(t, 0.75, settings["similarity_boost"], 1e-9)
}

func TestSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), 0).Synthesize(context.Background(), "Hi", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "quota_exceeded")
}

func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	s := New(testConfig("http://unused"), 0)

	_, err := s.Synthesize(context.Background(), "", "v")
	assert.Error(t, err)
	_, err = s.Synthesize(context.Background(), "text", "")
	assert.Error(t, err)
}
