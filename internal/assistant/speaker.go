package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"aidesk/internal/speech"
	"aidesk/internal/task"
)

const slotSpeech = "speech"

// SpeechOptions control chunked playback.
type SpeechOptions struct {
	Chunking     bool
	ChunkSize    int
	PauseSeconds float64
}

// DefaultSpeechOptions returns chunking on, 250 runes, one second pause.
func DefaultSpeechOptions() SpeechOptions {
	return SpeechOptions{Chunking: true, ChunkSize: speech.DefaultChunkSize, PauseSeconds: speech.DefaultPause}
}

func (o SpeechOptions) normalized() SpeechOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = speech.DefaultChunkSize
	}
	if o.PauseSeconds < 0 || math.IsNaN(o.PauseSeconds) || math.IsInf(o.PauseSeconds, 0) {
		o.PauseSeconds = speech.DefaultPause
	}
	return o
}

// Speaker is the speech controller. It owns the single speech slot, so
// chat, summary and voice tests share one voice at a time.
type Speaker struct {
	runner *task.Runner
	engine speech.Engine
	shell  Shell

	Input Field

	voiceID  string
	rate     int
	opts     SpeechOptions
	handle   *task.Handle
	progress float64
}

// NewSpeaker returns a Speaker using voiceID and rate until SetVoice.
func NewSpeaker(r *task.Runner, engine speech.Engine, sh Shell, voiceID string, rate int, opts SpeechOptions) *Speaker {
	s := &Speaker{runner: r, engine: engine, shell: sh, voiceID: voiceID}
	s.rate = clampRate(rate)
	s.opts = opts.normalized()
	return s
}

func clampRate(rate int) int {
	if rate == 0 {
		return speech.DefaultRate
	}
	return min(max(rate, speech.MinRate), speech.MaxRate)
}

func (s *Speaker) Speaking() bool         { return s.handle != nil }
func (s *Speaker) Progress() float64      { return s.progress }
func (s *Speaker) Options() SpeechOptions { return s.opts }
func (s *Speaker) VoiceID() string        { return s.voiceID }
func (s *Speaker) Rate() int              { return s.rate }

// CharCount returns the number of characters in the input.
func (s *Speaker) CharCount() int { return utf8.RuneCountInString(s.Input.Value()) }

// Clear empties the input.
func (s *Speaker) Clear() { s.Input.Set("") }

// SetOptions installs playback options; invalid sizes and pauses fall
// back to the defaults. Playback already running keeps its options.
func (s *Speaker) SetOptions(o SpeechOptions) {
	s.opts = o.normalized()
}

// SetVoice selects the voice and rate for later playback.
func (s *Speaker) SetVoice(voiceID string, rate int) {
	s.voiceID = voiceID
	s.rate = clampRate(rate)
}

// Speak reads the input aloud.
func (s *Speaker) Speak() error {
	text := s.Input.Value()
	if strings.TrimSpace(text) == "" {
		return invalid(s.shell, "Enter text to convert to speech")
	}
	return s.start(text, s.voiceID, s.rate, s.opts)
}

// SpeakText reads text aloud with the current voice, for other
// controllers.
func (s *Speaker) SpeakText(text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid(s.shell, "There is nothing to read yet")
	}
	return s.start(text, s.voiceID, s.rate, s.opts)
}

// SpeakWith reads text with a candidate voice and rate without
// selecting them, in one piece.
func (s *Speaker) SpeakWith(text, voiceID string, rate int) error {
	return s.start(text, voiceID, clampRate(rate), SpeechOptions{})
}

func (s *Speaker) start(text, voiceID string, rate int, opts SpeechOptions) error {
	if s.handle != nil {
		return task.ErrBusy
	}
	if s.engine == nil {
		err := &speech.EngineError{Engine: "none", Err: errors.New("no speech engine available")}
		s.shell.Notify(LevelError, "Error", err.Error())
		return err
	}
	pb := speech.Playback{
		Engine:    s.engine,
		VoiceID:   voiceID,
		Rate:      rate,
		Chunking:  opts.Chunking,
		ChunkSize: opts.ChunkSize,
		Pause:     speech.PauseFromSeconds(opts.PauseSeconds),
	}
	work := func(ctx context.Context, p *task.Progress) (struct{}, error) {
		return struct{}{}, pb.Run(ctx, text, p)
	}
	h, err := task.Submit(s.runner, slotSpeech, work, s.finish,
		task.WithProgress(func(pct float64) { s.progress = pct }))
	if err != nil {
		return err
	}
	s.handle = h
	s.progress = 0
	s.shell.SetStatus("Converting to speech...", LevelBusy)
	slog.Debug("speech started", "chars", utf8.RuneCountInString(text), "voice", voiceID, "rate", rate, "chunking", opts.Chunking)
	return nil
}

func (s *Speaker) finish(o task.Outcome[struct{}]) {
	s.handle = nil
	s.progress = 0
	switch o.State {
	case task.Completed:
		s.shell.SetStatus("Speech finished", LevelSuccess)
	case task.Cancelled:
		s.shell.SetStatus("Stopped", LevelWarning)
	default:
		s.shell.Notify(LevelError, "Error", fmt.Sprintf("Could not convert to speech: %v", o.Err))
		s.shell.SetStatus("Speech failed", LevelError)
	}
}

// Stop asks playback to end after the chunk in flight and tells the
// engine to halt.
func (s *Speaker) Stop() {
	if s.handle == nil {
		return
	}
	s.handle.Cancel()
	if err := s.engine.Stop(); err != nil {
		slog.Warn("stop speech engine", "err", err)
	}
	s.shell.SetStatus("Stopping...", LevelWarning)
}
