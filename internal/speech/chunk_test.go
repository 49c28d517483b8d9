package speech

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitPacksSentences(t *testing.T) {
	got := Split("One. Two. Three.", 10)
	want := []string{"One. Two.", " Three."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitWithoutPunctuationSlicesFixed(t *testing.T) {
	got := Split("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitSlicesOversizeSentence(t *testing.T) {
	got := Split("Hi. aaaaaaaaaaaa.", 5)
	want := []string{"Hi.", " aaaa", "aaaaa", "aaa."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitKeepsTrailingFragment(t *testing.T) {
	got := Split("A. B", 250)
	if !reflect.DeepEqual(got, []string{"A. B"}) {
		t.Fatalf("got %q", got)
	}
}

func TestSplitEmptyAndDefaults(t *testing.T) {
	if got := Split("", 10); got != nil {
		t.Fatalf("empty text should give no chunks, got %q", got)
	}
	long := strings.Repeat("x", DefaultChunkSize+1)
	if got := Split(long, 0); len(got) != 2 {
		t.Fatalf("max <= 0 should use the default size, got %d chunks", len(got))
	}
}

func TestSplitRoundTripAndBounds(t *testing.T) {
	texts := []string{
		"Xin chào. Tôi là trợ lý! Bạn có khỏe không? Cảm ơn.",
		"No punctuation at all in this fairly long line of text",
		"Wait... what?! Really. ",
		"日本語の文です。これは二番目。English too. 中文也可以!",
		strings.Repeat("Short. ", 40) + strings.Repeat("long", 100) + ". End",
		".",
		"   ",
	}
	for _, text := range texts {
		for _, max := range []int{1, 3, 7, 25, 250} {
			chunks := Split(text, max)
			if strings.Join(chunks, "") != text {
				t.Fatalf("round trip failed for %q max %d: %q", text, max, chunks)
			}
			for _, c := range chunks {
				if n := utf8.RuneCountInString(c); n > max || n == 0 {
					t.Fatalf("chunk %q has %d runes, max %d", c, n, max)
				}
			}
		}
	}
}
