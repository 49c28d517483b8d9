package speech

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const espeakVoices = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-us           --/M      English_(America)  gmw/en-US            (en 10)
 5  vi              --/M      Vietnamese_Northern sit/vi
`

const sayVoices = `Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Linh                vi_VN    # Xin chào, tôi tên là Linh.
garbage line without locale
`

func TestParseEspeakVoices(t *testing.T) {
	got := parseEspeakVoices(espeakVoices)
	want := []Voice{
		{ID: "af", Name: "Afrikaans", Locale: "af"},
		{ID: "en-us", Name: "English (America)", Locale: "en-us"},
		{ID: "vi", Name: "Vietnamese Northern", Locale: "vi"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestParseSayVoices(t *testing.T) {
	got := parseSayVoices(sayVoices)
	want := []Voice{
		{ID: "Alex", Name: "Alex", Locale: "en_US"},
		{ID: "Bad News", Name: "Bad News", Locale: "en_US"},
		{ID: "Linh", Name: "Linh", Locale: "vi_VN"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestCommandEngineVoices(t *testing.T) {
	var gotArgs []string
	e := &CommandEngine{
		binary: "/usr/bin/espeak-ng",
		kind:   "espeak",
		output: func(_ context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte(espeakVoices), nil
		},
	}
	voices, err := e.Voices(context.Background())
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	if len(voices) != 3 || !reflect.DeepEqual(gotArgs, []string{"--voices"}) {
		t.Fatalf("voices %+v args %v", voices, gotArgs)
	}
	cat := NewCatalog(voices, nil)
	if got := cat.Voices(Vietnamese, Male); len(got) != 1 || got[0].ID != "vi" {
		t.Fatalf("vietnamese voices = %+v", got)
	}
}

func TestCommandEngineVoicesError(t *testing.T) {
	e := &CommandEngine{
		binary: "/usr/bin/say",
		kind:   "say",
		output: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}
	_, err := e.Voices(context.Background())
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Engine != "say" {
		t.Fatalf("expected say EngineError, got %v", err)
	}
}

func TestCommandEngineArgs(t *testing.T) {
	say := &CommandEngine{binary: "/usr/bin/say", kind: "say"}
	if got := say.args("Alex", 180); !reflect.DeepEqual(got, []string{"-v", "Alex", "-r", "180"}) {
		t.Fatalf("say args = %v", got)
	}
	espeak := &CommandEngine{binary: "/usr/bin/espeak-ng", kind: "espeak"}
	if got := espeak.args("en-us", 150); !reflect.DeepEqual(got, []string{"-v", "en-us", "-s", "150"}) {
		t.Fatalf("espeak args = %v", got)
	}
	if got := espeak.args("", 0); len(got) != 0 {
		t.Fatalf("empty voice and rate should add no flags, got %v", got)
	}
}

func TestNewCommandEngineLookup(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) {
		if name == "say" {
			return "/usr/bin/say", nil
		}
		return "", errors.New("not found")
	}
	e, err := NewCommandEngine("say")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.kind != "say" || e.Name() != "say" {
		t.Fatalf("kind %q name %q", e.kind, e.Name())
	}

	if _, err := NewCommandEngine("espeak-ng"); err == nil {
		t.Fatalf("expected error when binary is missing")
	}
}

func TestCommandEngineSpeakBlankIsNoop(t *testing.T) {
	e := &CommandEngine{binary: "/nonexistent/espeak-ng", kind: "espeak"}
	if err := e.Speak(context.Background(), "  ", "en", 200); err != nil {
		t.Fatalf("blank text should not run the engine: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("stop with nothing running: %v", err)
	}
}
