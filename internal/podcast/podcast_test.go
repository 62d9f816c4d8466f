package podcast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceParity(t *testing.T) {
	v := Voices{Host: "h", Guest: "g"}
	for i, want := range []string{"h", "g", "h", "g", "h", "g"} {
		assert.Equal(t, want, v.For(i), "index %d", i)
	}
	assert.Equal(t, RoleHost, RoleForIndex(4))
	assert.Equal(t, RoleGuest, RoleForIndex(5))
}

func TestVoicesMerge(t *testing.T) {
	v := Voices{Guest: "custom"}.Merge(Voices{Host: "h", Guest: "g"})
	assert.Equal(t, Voices{Host: "h", Guest: "custom"}, v)
}

func TestValidationErrorNamesCount(t *testing.T) {
	err := error(&ValidationError{Count: 5, Raw: "a\nb"})
	assert.Contains(t, err.Error(), "got 5")
	assert.Contains(t, err.Error(), "a\nb")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 5, verr.Count)
}

func TestResultSkipped(t *testing.T) {
	r := &Result{Lines: []LineResult{
		{Index: 0},
		{Index: 1, Err: errors.New("boom")},
		{Index: 2},
	}}
	assert.Equal(t, 2, r.Segments())
	assert.Equal(t, []int{1}, r.Skipped())
}

func TestWrappedErrors(t *testing.T) {
	inner := errors.New("status 404")
	gen := &GenerationError{Provider: "groq", Err: inner}
	assert.ErrorIs(t, gen, inner)

	line := &LineError{Index: 3, Err: inner}
	assert.ErrorIs(t, line, inner)
	assert.Equal(t, "line 3: status 404", line.Error())
}
