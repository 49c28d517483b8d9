package speech

import (
	"context"
	"fmt"
)

// DefaultRate is the speaking rate in words per minute.
const DefaultRate = 200

// Rate bounds offered by the settings screen.
const (
	MinRate = 100
	MaxRate = 300
)

// Voice describes one voice of an engine catalog. Language and Gender are
// guessed by a Classifier unless the engine reports them.
type Voice struct {
	ID       string
	Name     string
	Locale   string // raw language hint reported by the engine, may be empty
	Language Language
	Gender   Gender
}

// Engine speaks text synchronously.
type Engine interface {
	// Voices returns the engine catalog.
	Voices(ctx context.Context) ([]Voice, error)
	// Speak blocks until the utterance is finished or the engine is stopped.
	Speak(ctx context.Context, text, voiceID string, rate int) error
	// Stop asks the engine to halt; the effect on an utterance in progress
	// depends on the engine.
	Stop() error
}

// EngineError reports a failure inside a speech engine.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s speech engine: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
