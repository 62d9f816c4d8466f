package script

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/podcaster/internal/podcast"
)

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Line%d", i+1)
	}
	return lines
}

func TestParseSixLines(t *testing.T) {
	raw := "  Welcome to the show!  \n\nThanks for having me.\r\nSpace is big.\n   \nReally big.\nShall we begin?\nLet's go."
	lines, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Welcome to the show!",
		"Thanks for having me.",
		"Space is big.",
		"Really big.",
		"Shall we begin?",
		"Let's go.",
	}, lines)
}

func TestParseWrongCount(t *testing.T) {
	for _, n := range []int{0, 1, 5, 7, 12} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			raw := strings.Join(numbered(n), "\n")
			lines, err := Parse(raw)
			assert.Nil(t, lines)

			var verr *podcast.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, n, verr.Count)
			assert.Equal(t, raw, verr.Raw)
			assert.Contains(t, err.Error(), fmt.Sprintf("got %d", n))
		})
	}
}

func TestParseDropsPreamblesAnywhere(t *testing.T) {
	lines := numbered(6)
	raw := strings.Join([]string{
		"Here is the script:",
		lines[0], lines[1], lines[2],
		"This is the middle.",
		lines[3], lines[4], lines[5],
		"This is the end.",
	}, "\n")

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestParseHereIsScenario(t *testing.T) {
	got, err := Parse("Here is the script:\nLine1\nLine2\nLine3\nLine4\nLine5\nLine6")
	require.NoError(t, err)
	assert.Equal(t, numbered(6), got)
}

func TestPreambleMatchIsLiteral(t *testing.T) {
	// Only the two exact, case-sensitive prefixes are filtered.
	got := Lines("here is lowercase\nHere's a contraction\nSure! Here is one\nThis is it")
	assert.Equal(t, []string{"here is lowercase", "Here's a contraction", "Sure! Here is one"}, got)
}

func TestPrompt(t *testing.T) {
	p := Prompt("space exploration")
	assert.Equal(t, "Write a podcast conversation about space exploration. Return exactly 6 lines of dialogue. "+
		"No labels, no names, no extra text. Just 6 lines of conversation.", p)
}
