// Package tts defines the interface for text-to-speech synthesis.
//
// podcaster voices every dialogue line through a Synthesizer. The pipeline
// writes the returned bytes verbatim to a scratch file and decodes them, so
// a backend only has to report what container it produced.
package tts

import (
	"context"
	"strings"
)

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Name returns the backend identifier (e.g., "elevenlabs", "piper").
	Name() string

	// Synthesize speaks text with the given voice identifier.
	Synthesize(ctx context.Context, text, voice string) (*Result, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// Result holds the output of TTS synthesis.
type Result struct {
	// Audio is the encoded audio exactly as produced by the backend.
	Audio []byte

	// ContentType is the MIME type of the audio (e.g., "audio/mpeg", "audio/wav").
	ContentType string
}

// Ext returns the file extension matching ContentType.
func (r *Result) Ext() string {
	ct := strings.ToLower(r.ContentType)
	switch {
	case strings.Contains(ct, "wav"):
		return ".wav"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	default:
		return ".mp3"
	}
}
