// Package podcast defines the core data types flowing through the podcaster pipeline.
package podcast

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ExpectedLines is the exact number of dialogue lines a script must contain.
	ExpectedLines = 6

	// SegmentGap is the silence appended after every spoken line.
	SegmentGap = 300 * time.Millisecond
)

// Role identifies one of the two speakers.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// RoleForIndex returns the speaker of the line at index i (0-based).
// Even lines belong to the host, odd lines to the guest.
func RoleForIndex(i int) Role {
	if i%2 == 0 {
		return RoleHost
	}
	return RoleGuest
}

// Voices maps the two roles to backend voice identifiers.
type Voices struct {
	Host  string `json:"host"`
	Guest string `json:"guest"`
}

// For returns the voice identifier for the line at index i.
func (v Voices) For(i int) string {
	if RoleForIndex(i) == RoleHost {
		return v.Host
	}
	return v.Guest
}

// Merge returns v with empty fields filled from fallback.
func (v Voices) Merge(fallback Voices) Voices {
	if v.Host == "" {
		v.Host = fallback.Host
	}
	if v.Guest == "" {
		v.Guest = fallback.Guest
	}
	return v
}

// Request describes a single podcast generation run.
type Request struct {
	// Topic is the subject of the conversation. Required.
	Topic string `json:"topic"`

	// OutputAudio is the path of the exported WAV track.
	OutputAudio string `json:"output_audio,omitempty"`

	// OutputScript is the path the raw script text is written to.
	OutputScript string `json:"output_script,omitempty"`

	// HostVoice overrides the configured host voice.
	HostVoice string `json:"host_voice,omitempty"`

	// GuestVoice overrides the configured guest voice.
	GuestVoice string `json:"guest_voice,omitempty"`

	// Model overrides the completion model of the selected provider.
	Model string `json:"model,omitempty"`

	// Provider selects the completion backend ("groq", "openai", "local").
	Provider string `json:"provider,omitempty"`
}

// LineResult is the synthesis outcome of one dialogue line.
type LineResult struct {
	Index int    `json:"index"`
	Role  Role   `json:"role"`
	Voice string `json:"voice"`
	Text  string `json:"text"`
	Err   error  `json:"-"`
}

// OK reports whether the line made it into the track.
func (r LineResult) OK() bool { return r.Err == nil }

// Result is the outcome of a successful run.
type Result struct {
	// RunID identifies the run in logs, temp directories and object keys.
	RunID string `json:"run_id"`

	// ScriptPath is where the raw script text was written.
	ScriptPath string `json:"script_file"`

	// AudioPath is where the final track was exported.
	AudioPath string `json:"audio_file"`

	// Lines holds the per-line synthesis outcomes in speaking order.
	Lines []LineResult `json:"lines"`

	// Duration is the length of the exported track.
	Duration time.Duration `json:"duration"`

	// ScriptURL and AudioURL are set when the outputs were published to object storage.
	ScriptURL string `json:"script_url,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
}

// Segments returns the number of lines present in the track.
func (r *Result) Segments() int {
	n := 0
	for _, l := range r.Lines {
		if l.OK() {
			n++
		}
	}
	return n
}

// Skipped returns the indexes of lines dropped from the track.
func (r *Result) Skipped() []int {
	skipped := []int{}
	for _, l := range r.Lines {
		if !l.OK() {
			skipped = append(skipped, l.Index)
		}
	}
	return skipped
}

var (
	// ErrMissingCredentials is returned when a required API key is not configured.
	ErrMissingCredentials = errors.New("missing API keys")

	// ErrEmptyTopic is returned when a run is requested without a topic.
	ErrEmptyTopic = errors.New("topic is required")

	// ErrNoSegments is returned when no line could be synthesized.
	ErrNoSegments = errors.New("no audio segments were generated")
)

// GenerationError reports that the completion endpoint produced no script.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("failed to generate script from LLM: %v", e.Err)
	}
	return fmt.Sprintf("failed to generate script from LLM (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports a script whose dialogue line count is not ExpectedLines.
type ValidationError struct {
	// Count is the number of dialogue lines observed after filtering.
	Count int

	// Raw is the unmodified completion text.
	Raw string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("expected exactly %d lines, but got %d. Here's what was received:\n%s", ExpectedLines, e.Count, e.Raw)
}

// LineError reports a line whose synthesis failed under the abort policy.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
