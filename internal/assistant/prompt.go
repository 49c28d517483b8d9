package assistant

import (
	"errors"
	"fmt"
	"strings"
)

const summarySystemPrompt = "You are a careful assistant that writes faithful summaries. " +
	"Keep every main point, drop repetition, and never add facts that are not in the text. " +
	"Answer in the same language as the text."

// BuildSummaryPrompts returns the system and user prompt for summarizing text.
func BuildSummaryPrompts(text string) (string, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", errors.New("text is required")
	}
	var b strings.Builder
	b.WriteString("Summarize the following text concisely while keeping all of its main ideas:\n\n")
	fmt.Fprintf(&b, "%s\n\n", text)
	b.WriteString("Summary:")
	return summarySystemPrompt, b.String(), nil
}

// WordCount returns a basic word count for the given text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
