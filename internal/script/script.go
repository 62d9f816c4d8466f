// Package script builds the completion prompt for a topic and turns the raw
// completion text into the ordered dialogue lines of a podcast.
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadzzz/podcaster/internal/podcast"
)

// preambles are prefixes of framing lines some models add around the dialogue.
var preambles = []string{"Here is", "This is"}

// Prompt returns the completion prompt for topic.
func Prompt(topic string) string {
	return fmt.Sprintf("Write a podcast conversation about %s. Return exactly %d lines of dialogue. "+
		"No labels, no names, no extra text. Just %d lines of conversation.",
		topic, podcast.ExpectedLines, podcast.ExpectedLines)
}

// Lines splits raw into trimmed, non-empty lines and drops preamble lines.
// Order is preserved.
func Lines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isPreamble(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Parse returns the dialogue lines of raw. It fails with a
// *podcast.ValidationError unless exactly podcast.ExpectedLines remain.
func Parse(raw string) ([]string, error) {
	lines := Lines(raw)
	slog.Debug("parsed script", "dialogue_lines", len(lines))

	if len(lines) != podcast.ExpectedLines {
		return nil, &podcast.ValidationError{Count: len(lines), Raw: raw}
	}
	return lines, nil
}

func isPreamble(line string) bool {
	for _, p := range preambles {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
