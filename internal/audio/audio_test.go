package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mono22k = Format{SampleRate: 22050, Channels: 1}

// tone returns a track of d with a recognisable non-zero sample value.
func tone(f Format, d time.Duration, value int) *Track {
	t := Silence(f, d)
	for i := range t.Samples {
		t.Samples[i] = value
	}
	return t
}

// wavBytes encodes t as an in-memory 16-bit WAV file.
func wavBytes(t *Track) []byte {
	pcm := make([]byte, len(t.Samples)*2)
	for i, s := range t.Samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s)))
	}
	return PCMToWAV(pcm, t.SampleRate, t.Channels, 2)
}

// silence.mp3 holds ten MPEG-1 Layer III frames, mono at 44.1 kHz, 1152
// samples each.
const (
	mp3Fixture = "testdata/silence.mp3"
	mp3Frames  = 10 * 1152
)

func TestSilenceDuration(t *testing.T) {
	s := Silence(mono22k, 300*time.Millisecond)
	assert.Equal(t, 6615, s.Frames())
	assert.Equal(t, 300*time.Millisecond, s.Duration())

	stereo := Silence(Format{SampleRate: 44100, Channels: 2}, 300*time.Millisecond)
	assert.Equal(t, 13230, stereo.Frames())
	assert.Len(t, stereo.Samples, 26460)
}

func TestConcatKeepsOrder(t *testing.T) {
	a := tone(mono22k, 100*time.Millisecond, 100)
	b := tone(mono22k, 200*time.Millisecond, 200)

	out, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, out.Duration())
	assert.Equal(t, 100, out.Samples[0])
	assert.Equal(t, 100, out.Samples[a.Frames()-1])
	assert.Equal(t, 200, out.Samples[a.Frames()])
}

func TestConcatEmpty(t *testing.T) {
	_, err := Concat()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestConvertChannels(t *testing.T) {
	mono := &Track{Format: mono22k, Samples: []int{1, 2, 3}}
	stereo := Convert(mono, Format{SampleRate: 22050, Channels: 2})
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3}, stereo.Samples)

	back := Convert(&Track{Format: stereo.Format, Samples: []int{10, 20, 30, 50}}, mono22k)
	assert.Equal(t, []int{15, 40}, back.Samples)
}

func TestConvertSampleRate(t *testing.T) {
	src := tone(Format{SampleRate: 44100, Channels: 1}, time.Second, 500)
	out := Convert(src, mono22k)
	assert.Equal(t, 22050, out.Frames())
	assert.Equal(t, time.Second, out.Duration())
	assert.Equal(t, 500, out.Samples[100])
}

func TestAppendConvertsToReceiverFormat(t *testing.T) {
	base := tone(mono22k, 100*time.Millisecond, 1)
	base.Append(tone(Format{SampleRate: 44100, Channels: 2}, 100*time.Millisecond, 7))
	assert.Equal(t, mono22k, base.Format)
	assert.Equal(t, 200*time.Millisecond, base.Duration())
}

func TestDecodeWAVBytes(t *testing.T) {
	src := &Track{Format: mono22k, Samples: []int{0, 1000, -1000, 32767, -32768}}

	got, err := Decode(bytes.NewReader(wavBytes(src)))
	require.NoError(t, err)
	assert.Equal(t, src.Format, got.Format)
	assert.Equal(t, src.Samples, got.Samples)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not audio")))
	assert.Error(t, err)
}

func TestExportAndDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.wav")
	src := tone(Format{SampleRate: 16000, Channels: 2}, 250*time.Millisecond, -42)

	require.NoError(t, src.Export(path))

	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Format, got.Format)
	assert.Equal(t, 250*time.Millisecond, got.Duration())
	assert.Equal(t, -42, got.Samples[0])
}

func TestPCMToWAVHeader(t *testing.T) {
	wavBytes := PCMToWAV(make([]byte, 100), 22050, 1, 2)
	require.Len(t, wavBytes, 144)
	assert.Equal(t, "RIFF", string(wavBytes[0:4]))
	assert.Equal(t, "WAVE", string(wavBytes[8:12]))
	assert.Equal(t, "data", string(wavBytes[36:40]))
}

func TestDecodeMP3(t *testing.T) {
	data, err := os.ReadFile(mp3Fixture)
	require.NoError(t, err)

	got, err := DecodeMP3(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRate: 44100, Channels: 2}, got.Format)
	assert.Equal(t, mp3Frames, got.Frames())
	for _, s := range got.Samples {
		require.Zero(t, s)
	}
}

func TestDecodeFileSniffsMP3(t *testing.T) {
	got, err := DecodeFile(mp3Fixture)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Channels)
	assert.Equal(t, time.Duration(mp3Frames)*time.Second/44100, got.Duration())
}

func TestConcatMixedMP3AndWAV(t *testing.T) {
	mp3Track, err := DecodeFile(mp3Fixture)
	require.NoError(t, err)
	wavTrack, err := Decode(bytes.NewReader(wavBytes(tone(Format{SampleRate: 8000, Channels: 1}, time.Second, 900))))
	require.NoError(t, err)

	out, err := Concat(wavTrack, mp3Track, wavTrack)
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRate: 8000, Channels: 1}, out.Format)

	mp3At8k := mp3Frames * 8000 / 44100
	assert.Equal(t, 2*8000+mp3At8k, out.Frames())
	assert.Equal(t, 900, out.Samples[7999])
	assert.Equal(t, 0, out.Samples[8000])
	assert.Equal(t, 0, out.Samples[8000+mp3At8k-1])
	assert.Equal(t, 900, out.Samples[8000+mp3At8k])

	// And the other way round: the MP3 format wins when it comes first.
	out, err = Concat(mp3Track, wavTrack)
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRate: 44100, Channels: 2}, out.Format)
	assert.Equal(t, mp3Frames+44100, out.Frames())
}

func TestExportReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")
	require.NoError(t, os.WriteFile(path, []byte("previous run"), 0o644))

	require.NoError(t, tone(mono22k, 100*time.Millisecond, 3).Export(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file left behind")
	assert.Equal(t, "out.wav", entries[0].Name())

	got, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, got.Duration())
}
