// Package audio holds decoded PCM tracks and the operations the assembler
// needs on them: decoding WAV or MP3 input, generating silence, format
// conversion, concatenation and WAV export.
//
// Tracks are always 16-bit signed PCM with interleaved channels.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// ErrEmpty is returned when concatenating zero tracks.
var ErrEmpty = errors.New("no tracks to concatenate")

// Format describes the PCM layout of a track.
type Format struct {
	SampleRate int
	Channels   int
}

// Track is decoded 16-bit PCM audio.
type Track struct {
	Format

	// Samples holds interleaved samples, len = frames * Channels.
	Samples []int
}

// Frames returns the number of sample frames.
func (t *Track) Frames() int {
	if t.Channels == 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// Duration returns the playing time of the track.
func (t *Track) Duration() time.Duration {
	if t.SampleRate == 0 {
		return 0
	}
	return time.Duration(t.Frames()) * time.Second / time.Duration(t.SampleRate)
}

// Silence returns a track of d silence in format f.
func Silence(f Format, d time.Duration) *Track {
	frames := int(int64(d) * int64(f.SampleRate) / int64(time.Second))
	return &Track{Format: f, Samples: make([]int, frames*f.Channels)}
}

// Append adds other to the end of t, converting it to t's format first.
func (t *Track) Append(other *Track) {
	if other.Format != t.Format {
		other = Convert(other, t.Format)
	}
	t.Samples = append(t.Samples, other.Samples...)
}

// Concat joins tracks in order. The result takes the format of the first track.
func Concat(tracks ...*Track) (*Track, error) {
	if len(tracks) == 0 {
		return nil, ErrEmpty
	}
	out := &Track{Format: tracks[0].Format}
	for _, tr := range tracks {
		out.Append(tr)
	}
	return out, nil
}

// Convert returns t resampled and remixed to f. Sample rate conversion is
// linear interpolation; channel conversion averages down or repeats up.
func Convert(t *Track, f Format) *Track {
	out := remix(t, f.Channels)
	if t.SampleRate != f.SampleRate {
		out = resample(out, f.SampleRate)
	}
	return out
}

func remix(t *Track, channels int) *Track {
	if t.Channels == channels {
		return &Track{Format: t.Format, Samples: t.Samples}
	}
	frames := t.Frames()
	out := &Track{
		Format:  Format{SampleRate: t.SampleRate, Channels: channels},
		Samples: make([]int, frames*channels),
	}
	for i := 0; i < frames; i++ {
		src := t.Samples[i*t.Channels : (i+1)*t.Channels]
		if channels == 1 {
			sum := 0
			for _, s := range src {
				sum += s
			}
			out.Samples[i] = sum / len(src)
			continue
		}
		for c := 0; c < channels; c++ {
			out.Samples[i*channels+c] = src[c%len(src)]
		}
	}
	return out
}

func resample(t *Track, rate int) *Track {
	frames := t.Frames()
	outFrames := int(int64(frames) * int64(rate) / int64(t.SampleRate))
	out := &Track{
		Format:  Format{SampleRate: rate, Channels: t.Channels},
		Samples: make([]int, outFrames*t.Channels),
	}
	ratio := float64(t.SampleRate) / float64(rate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		frac := pos - float64(j)
		for c := 0; c < t.Channels; c++ {
			a := t.Samples[j*t.Channels+c]
			b := a
			if j+1 < frames {
				b = t.Samples[(j+1)*t.Channels+c]
			}
			out.Samples[i*t.Channels+c] = a + int(frac*float64(b-a))
		}
	}
	return out
}

// DecodeFile decodes the WAV or MP3 file at path.
func DecodeFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode sniffs the container and decodes WAV (RIFF/WAVE) or MP3 audio.
func Decode(r io.ReadSeeker) (*Track, error) {
	header := make([]byte, 12)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading audio header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding audio: %w", err)
	}
	if n == 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		return DecodeWAV(r)
	}
	return DecodeMP3(r)
}

// DecodeWAV decodes a PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*Track, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav data")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}

	samples := buf.Data
	switch d.BitDepth {
	case 16:
	case 8:
		samples = rescale(samples, func(v int) int { return (v - 128) << 8 })
	case 24:
		samples = rescale(samples, func(v int) int { return v >> 8 })
	case 32:
		samples = rescale(samples, func(v int) int { return v >> 16 })
	default:
		return nil, fmt.Errorf("unsupported wav bit depth %d", d.BitDepth)
	}

	return &Track{
		Format:  Format{SampleRate: int(d.SampleRate), Channels: int(d.NumChans)},
		Samples: samples,
	}, nil
}

func rescale(in []int, fn func(int) int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// DecodeMP3 decodes an MP3 stream. The decoder always yields stereo output.
func DecodeMP3(r io.Reader) (*Track, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("reading mp3 frames: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("decoding mp3: no audio frames")
	}
	return &Track{
		Format:  Format{SampleRate: d.SampleRate(), Channels: 2},
		Samples: int16LE(pcm),
	}, nil
}

func int16LE(pcm []byte) []int {
	out := make([]int, len(pcm)/2)
	for i := range out {
		out[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return out
}

// Export writes t to path as a 16-bit PCM WAV file, creating parent
// directories. The file is written next to path and renamed into place, so
// readers never observe a partial track.
func (t *Track) Export(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	tmp := f.Name()

	enc := wav.NewEncoder(f, t.SampleRate, 16, t.Channels, 1)
	err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: t.Channels, SampleRate: t.SampleRate},
		Data:           t.Samples,
		SourceBitDepth: 16,
	})
	if err == nil {
		err = enc.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}

// PCMToWAV wraps raw little-endian PCM data in a WAV container.
func PCMToWAV(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	dataLen := len(pcm)

	buf := &bytes.Buffer{}
	buf.Grow(44 + dataLen)

	// RIFF header; size excludes the first 8 bytes.
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}
