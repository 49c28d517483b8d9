package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"aidesk/internal/ai"
)

// VoiceSource lists the voices of a cloud engine.
type VoiceSource func(ctx context.Context) ([]Voice, error)

// SynthEngine renders each utterance to an MP3 file through a cloud TTS
// client and plays it with an external Player.
type SynthEngine struct {
	name   string
	tts    ai.TTSClient
	model  string
	voices VoiceSource
	player Player
	file   func() string
	keep   bool

	proc tracked
}

// SynthOption configures a SynthEngine.
type SynthOption func(*SynthEngine)

// KeepAudio leaves rendered files on disk after playback.
func KeepAudio() SynthOption {
	return func(e *SynthEngine) { e.keep = true }
}

// NewSynthEngine returns an engine named name that synthesizes with
// model. file returns a fresh output path for every utterance.
func NewSynthEngine(name string, tts ai.TTSClient, model string, voices VoiceSource, player Player, file func() string, opts ...SynthOption) *SynthEngine {
	e := &SynthEngine{name: name, tts: tts, model: model, voices: voices, player: player, file: file}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *SynthEngine) Voices(ctx context.Context) ([]Voice, error) {
	if e.voices == nil {
		return nil, nil
	}
	v, err := e.voices(ctx)
	if err != nil {
		return nil, &EngineError{Engine: e.name, Err: err}
	}
	return v, nil
}

// Speak synthesizes text, then plays it. rate maps to a speed multiplier
// around DefaultRate.
func (e *SynthEngine) Speak(ctx context.Context, text, voiceID string, rate int) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	e.proc.reset()

	path := e.file()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &EngineError{Engine: e.name, Err: err}
	}
	if err := e.render(ctx, path, text, voiceID, rate); err != nil {
		_ = os.Remove(path)
		return &EngineError{Engine: e.name, Err: err}
	}
	if !e.keep {
		defer os.Remove(path)
	}
	if e.proc.isHalted() {
		return nil
	}
	halted, err := e.proc.run(e.player.command(path))
	if err != nil && !halted {
		return &EngineError{Engine: e.name, Err: fmt.Errorf("play %s: %w", filepath.Base(path), err)}
	}
	return nil
}

func (e *SynthEngine) render(ctx context.Context, path, text, voiceID string, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	speed := 0.0
	if rate > 0 {
		speed = float64(rate) / DefaultRate
	}
	if err := e.tts.TTS(ctx, e.model, voiceID, text, speed, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Debug("speech rendered", "engine", e.name, "file", path, "chars", len(text))
	return nil
}

// Stop kills playback in progress and skips playback of an utterance
// still being synthesized.
func (e *SynthEngine) Stop() error {
	if err := e.proc.kill(); err != nil {
		return &EngineError{Engine: e.name, Err: err}
	}
	return nil
}

// OpenAIVoices lists the fixed voice set of the OpenAI speech API.
func OpenAIVoices(context.Context) ([]Voice, error) {
	out := make([]Voice, 0, len(ai.OpenAIVoices))
	for _, name := range ai.OpenAIVoices {
		out = append(out, Voice{ID: name, Name: name, Locale: "en-US"})
	}
	return out, nil
}

// ElevenLabsVoices lists the account voices, taking language and gender
// from the voice labels when present.
func ElevenLabsVoices(c *ai.ElevenLabs) VoiceSource {
	return func(ctx context.Context) ([]Voice, error) {
		list, err := c.ListVoices(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Voice, 0, len(list))
		for _, v := range list {
			out = append(out, Voice{
				ID:       v.VoiceID,
				Name:     v.Name,
				Locale:   strings.TrimSpace(v.Labels["accent"] + " " + v.Labels["language"]),
				Language: languageFromCode(v.Labels["language"]),
				Gender:   Gender(capitalize(v.Labels["gender"])),
			})
		}
		return out, nil
	}
}

func languageFromCode(code string) Language {
	switch strings.ToLower(code) {
	case "en":
		return English
	case "vi":
		return Vietnamese
	case "zh":
		return Chinese
	case "ja":
		return Japanese
	}
	return ""
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
