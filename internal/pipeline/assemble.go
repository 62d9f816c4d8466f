package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nadzzz/podcaster/internal/audio"
	"github.com/nadzzz/podcaster/internal/podcast"
	"github.com/nadzzz/podcaster/internal/tts"
)

// Policy decides what a failed line does to the run.
type Policy string

const (
	// PolicySkip drops the failed line from the track and carries on.
	PolicySkip Policy = "skip"

	// PolicyAbort fails the run on the first failed line.
	PolicyAbort Policy = "abort"
)

// Assembler voices dialogue lines and joins them into one track.
type Assembler struct {
	synth   tts.Synthesizer
	policy  Policy
	tempDir string
}

// NewAssembler creates an Assembler. Scratch directories are created under
// tempDir, or the system temp directory when tempDir is empty.
func NewAssembler(synth tts.Synthesizer, policy Policy, tempDir string) *Assembler {
	if policy == "" {
		policy = PolicySkip
	}
	return &Assembler{synth: synth, policy: policy, tempDir: tempDir}
}

// Assembly is the outcome of Assemble.
type Assembly struct {
	Lines    []podcast.LineResult
	Duration time.Duration
}

// Assemble synthesizes every line with the voice of its role, pads each
// segment with podcast.SegmentGap of silence and exports the concatenation
// to outputPath as WAV. Scratch files live in a per-run directory that is
// removed before returning.
func (a *Assembler) Assemble(ctx context.Context, runID string, lines []string, voices podcast.Voices, outputPath string) (*Assembly, error) {
	logger := slog.With("run_id", runID)

	dir, err := os.MkdirTemp(a.tempDir, "podcaster-"+runID+"-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	results := make([]podcast.LineResult, 0, len(lines))
	segments := make([]*audio.Track, 0, len(lines))

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := podcast.LineResult{
			Index: i,
			Role:  podcast.RoleForIndex(i),
			Voice: voices.For(i),
			Text:  line,
		}

		seg, err := a.segment(ctx, dir, i, line, res.Voice)
		if err != nil {
			res.Err = err
			results = append(results, res)
			// Undecodable audio means the backend and decoder disagree on the
			// format; every later line would fail the same way.
			var derr *decodeError
			if a.policy == PolicyAbort || errors.As(err, &derr) {
				return nil, &podcast.LineError{Index: i, Err: err}
			}
			logger.Warn("skipping line", "index", i, "role", res.Role, "error", err)
			continue
		}

		results = append(results, res)
		segments = append(segments, seg)
		logger.Debug("line synthesized", "index", i, "role", res.Role, "duration", seg.Duration())
	}

	if len(segments) == 0 {
		return nil, podcast.ErrNoSegments
	}

	track, err := audio.Concat(segments...)
	if err != nil {
		return nil, err
	}
	if err := track.Export(outputPath); err != nil {
		return nil, err
	}

	logger.Info("podcast saved", "path", outputPath, "segments", len(segments), "duration", track.Duration())
	return &Assembly{Lines: results, Duration: track.Duration()}, nil
}

// segment produces the silence-padded audio of one line. The scratch file is
// deleted as soon as it has been decoded.
func (a *Assembler) segment(ctx context.Context, dir string, i int, line, voice string) (*audio.Track, error) {
	path, err := synthesizeLine(ctx, a.synth, line, voice, filepath.Join(dir, fmt.Sprintf("line_%d", i)))
	if err != nil {
		return nil, err
	}

	track, err := audio.DecodeFile(path)
	_ = os.Remove(path)
	if err != nil {
		return nil, &decodeError{path: filepath.Base(path), err: err}
	}

	track.Append(audio.Silence(track.Format, podcast.SegmentGap))
	return track, nil
}

// synthesizeLine voices line and writes the audio verbatim next to tempPath,
// adding the extension of the returned container. It returns the written path.
func synthesizeLine(ctx context.Context, synth tts.Synthesizer, line, voice, tempPath string) (string, error) {
	res, err := synth.Synthesize(ctx, line, voice)
	if err != nil {
		slog.Warn("TTS failed for line", "line", preview(line, 30), "voice", voice, "error", err)
		return "", err
	}

	path := tempPath + res.Ext()
	if err := os.WriteFile(path, res.Audio, 0o600); err != nil {
		return "", fmt.Errorf("writing line audio: %w", err)
	}
	return path, nil
}

// decodeError reports line audio the decoder could not read. It always
// aborts the run, whatever the policy.
type decodeError struct {
	path string
	err  error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decoding line audio %s: %v", e.path, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
