package speech

import (
	"strings"
	"unicode/utf8"
)

// Chunking defaults.
const (
	DefaultChunkSize = 250
	DefaultPause     = 1.0 // seconds
)

// Split breaks text into chunks of at most limit runes. Breaks fall after
// '.', '!' or '?' when possible; sentences are packed together while they
// fit, and anything longer than limit is cut at limit runes. Joining the chunks
// gives back text unchanged.
func Split(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultChunkSize
	}
	sentences := splitSentences(text)
	if len(sentences) == 1 {
		return sliceRunes(text, limit)
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if currentLen+n <= limit {
			current.WriteString(s)
			currentLen += n
			continue
		}
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if n > limit {
			pieces := sliceRunes(s, limit)
			chunks = append(chunks, pieces[:len(pieces)-1]...)
			s = pieces[len(pieces)-1]
			n = utf8.RuneCountInString(s)
		}
		current.WriteString(s)
		currentLen = n
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences cuts after every sentence terminator, keeping it.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			end := i + utf8.RuneLen(r)
			out = append(out, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func sliceRunes(text string, limit int) []string {
	var out []string
	for text != "" {
		n, i := 0, 0
		for i < len(text) && n < limit {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			n++
		}
		out = append(out, text[:i])
		text = text[i:]
	}
	return out
}
