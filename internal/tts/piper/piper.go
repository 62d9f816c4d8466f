// Package piper implements the TTS Synthesizer using a Piper Wyoming protocol server.
//
// Piper is a fast, local neural text-to-speech system. The linuxserver/piper
// container exposes the Wyoming protocol on TCP port 10200. Voice identifiers
// are Piper voice model names (e.g. "en_US-lessac-medium").
//
// Wyoming protocol format (per event):
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package piper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/nadzzz/podcaster/internal/audio"
	"github.com/nadzzz/podcaster/internal/config"
	"github.com/nadzzz/podcaster/internal/tts"
)

// Synthesizer implements tts.Synthesizer using the Wyoming protocol.
type Synthesizer struct {
	endpoint string
	timeout  time.Duration
}

// New creates a new Piper synthesizer from config.
func New(cfg config.PiperConfig, timeout time.Duration) *Synthesizer {
	ep := strings.TrimPrefix(cfg.Endpoint, "tcp://")
	ep = strings.TrimPrefix(ep, "http://")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synthesizer{endpoint: ep, timeout: timeout}
}

// Name returns the backend identifier.
func (s *Synthesizer) Name() string { return "piper" }

// Synthesize sends text to the Piper server and returns the speech as WAV.
// An empty voice lets the server pick its default model.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (*tts.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if s.endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured")
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.timeout))
	}

	data := map[string]any{"text": text}
	if voice != "" {
		data["voice"] = map[string]any{"name": voice}
	}
	if err := writeEvent(conn, event{Type: "synthesize", Data: data}, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	// audio-start -> audio-chunk* -> audio-stop
	var (
		pcm      bytes.Buffer
		rate     = 22050
		channels = 1
		width    = 2
		r        = bufio.NewReader(conn)
	)
	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			rate = intField(evt.Data, "rate", rate)
			channels = intField(evt.Data, "channels", channels)
			width = intField(evt.Data, "width", width)

		case "audio-chunk":
			pcm.Write(payload)

		case "audio-stop":
			slog.Debug("piper synthesize", "voice", voice, "pcm_bytes", pcm.Len(), "rate", rate)
			return &tts.Result{
				Audio:       audio.PCMToWAV(pcm.Bytes(), rate, channels, width),
				ContentType: "audio/wav",
			}, nil

		case "error":
			msg := "unknown error"
			if t, ok := evt.Data["text"].(string); ok {
				msg = t
			}
			return nil, fmt.Errorf("piper error: %s", msg)

		default:
			slog.Debug("piper unknown event", "type", evt.Type)
		}
	}
}

// Close is a no-op; connections are per-request.
func (s *Synthesizer) Close() error { return nil }

// Upper bounds on a single Wyoming event. Audio chunks are a few KiB each.
const (
	maxJSONLen    = 1 << 20
	maxPayloadLen = 16 << 20
)

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func intField(data map[string]any, key string, fallback int) int {
	if v, ok := data[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// writeEvent sends a Wyoming event.
func writeEvent(w io.Writer, evt event, payload []byte) error {
	jsonBytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(jsonBytes), len(payload))
	buf.Write(jsonBytes)
	buf.WriteByte('\n')
	buf.Write(payload)

	_, err = w.Write(buf.Bytes())
	return err
}

// readEvent reads one Wyoming event and its payload.
func readEvent(r *bufio.Reader) (*event, []byte, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid wyoming header: %q", header)
	}
	jsonLen, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("parsing json_length: %w", err)
	}
	payloadLen, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("parsing payload_length: %w", err)
	}
	if jsonLen < 0 || jsonLen > maxJSONLen {
		return nil, nil, fmt.Errorf("json_length %d out of range", jsonLen)
	}
	if payloadLen < 0 || payloadLen > maxPayloadLen {
		return nil, nil, fmt.Errorf("payload_length %d out of range", payloadLen)
	}

	// JSON is followed by a newline.
	jsonBuf := make([]byte, jsonLen+1)
	if _, err := io.ReadFull(r, jsonBuf); err != nil {
		return nil, nil, fmt.Errorf("reading json: %w", err)
	}

	var evt event
	if err := json.Unmarshal(jsonBuf[:jsonLen], &evt); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("reading payload: %w", err)
		}
	}

	return &evt, payload, nil
}
