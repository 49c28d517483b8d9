// Package assistant holds the feature controllers behind the interface:
// chat, summarization, speech and settings. Controllers are owned by the
// interactive goroutine; blocking work goes through a task.Runner and
// results come back on the same goroutine.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aidesk/internal/ai"
	"aidesk/internal/speech"
	"aidesk/internal/task"
)

// ErrValidation marks input rejected before any task is submitted.
var ErrValidation = errors.New("invalid input")

// Level classifies status-line messages and notices.
type Level int

const (
	LevelInfo Level = iota
	LevelBusy
	LevelSuccess
	LevelWarning
	LevelError
)

// Status is the status-line message.
type Status struct {
	Text  string
	Level Level
}

// Notice is a modal message waiting to be acknowledged.
type Notice struct {
	Title string
	Text  string
	Level Level
}

// Shell is the part of the interface controllers report to.
type Shell interface {
	SetStatus(text string, level Level)
	Notify(level Level, title, text string)
}

// Tab identifies a feature screen.
type Tab int

const (
	TabSummarize Tab = iota
	TabChat
	TabSpeech
	TabSettings
)

var tabNames = []string{"Summarize", "Chat", "Speech", "Settings"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return fmt.Sprintf("Tab(%d)", int(t))
}

// Tabs lists the screens in display order.
var Tabs = []Tab{TabSummarize, TabChat, TabSpeech, TabSettings}

// Fetcher extracts readable text from a web page.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Field is an input value shared between a controller and a widget.
// Rev changes whenever the controller replaces the value.
type Field struct {
	value string
	rev   int
}

func (f *Field) Value() string { return f.value }
func (f *Field) Rev() int       { return f.rev }

// Set replaces the value from the controller side.
func (f *Field) Set(v string) {
	f.value = v
	f.rev++
}

// Sync records what the user typed without bumping Rev.
func (f *Field) Sync(v string) { f.value = v }

// Deps are the collaborators an App is built from.
type Deps struct {
	Dispatcher     task.Dispatcher
	Gateway        *ai.Gateway
	Engine         speech.Engine
	Catalog        *speech.Catalog
	Fetcher        Fetcher
	SaveCredential func(provider, key string) error
	ReadFile       func(path string) ([]byte, error)

	Options    SpeechOptions
	VoiceID    string
	Rate       int
	TestPhrase string
	Version    string
}

// App wires the controllers together and keeps the shared status line
// and notice queue.
type App struct {
	Runner     *task.Runner
	Gateway    *ai.Gateway
	Chat       *Chat
	Summarizer *Summarizer
	Speech     *Speaker
	Settings   *Settings

	version string
	status  Status
	notices []Notice
	tab     Tab
}

// New builds an App. Catalog may be nil when the engine offers no voices.
func New(d Deps) *App {
	a := &App{
		Runner:  task.NewRunner(d.Dispatcher),
		Gateway: d.Gateway,
		version: d.Version,
		status:  Status{Text: "Starting...", Level: LevelInfo},
	}
	if d.Catalog == nil {
		d.Catalog = speech.NewCatalog(nil, nil)
	}
	a.Speech = NewSpeaker(a.Runner, d.Engine, a, d.VoiceID, d.Rate, d.Options)
	a.Chat = NewChat(a.Runner, d.Gateway, a.Speech, a)
	a.Summarizer = NewSummarizer(a.Runner, d.Gateway, d.Fetcher, a.Speech, a, d.ReadFile)
	a.Settings = NewSettings(a.Runner, d.Gateway, a.Speech, d.Catalog, a, d.SaveCredential, d.TestPhrase)
	return a
}

// Start sets the initial status: a missing credential sends the user to
// the Settings tab.
func (a *App) Start() {
	if !a.Gateway.HasCredential() {
		a.SetStatus("API key not configured", LevelWarning)
		a.tab = TabSettings
		return
	}
	a.SetStatus("Ready", LevelSuccess)
}

// Shutdown stops speech and asks every running task to stop.
func (a *App) Shutdown() {
	a.Speech.Stop()
	a.Runner.CancelAll()
}

func (a *App) SetStatus(text string, level Level) {
	a.status = Status{Text: text, Level: level}
}

func (a *App) Notify(level Level, title, text string) {
	a.notices = append(a.notices, Notice{Title: title, Text: text, Level: level})
	switch level {
	case LevelError:
		slog.Warn("notice", "title", title, "text", text)
	default:
		slog.Debug("notice", "title", title, "text", text)
	}
}

func (a *App) Status() Status { return a.status }

// Notice returns the oldest unacknowledged notice.
func (a *App) Notice() (Notice, bool) {
	if len(a.notices) == 0 {
		return Notice{}, false
	}
	return a.notices[0], true
}

// Dismiss acknowledges the oldest notice.
func (a *App) Dismiss() {
	if len(a.notices) > 0 {
		a.notices = a.notices[1:]
	}
}

func (a *App) Tab() Tab { return a.tab }

func (a *App) SetTab(t Tab) {
	if t >= TabSummarize && t <= TabSettings {
		a.tab = t
	}
}

// About describes the application for the settings screen.
func (a *App) About() {
	text := "aidesk " + a.version + "\nSummarize text and web pages, chat with a language model, and read text aloud."
	a.Notify(LevelInfo, "About", text)
}

// invalid reports rejected input to the user and returns an error
// wrapping ErrValidation.
func invalid(sh Shell, msg string) error {
	sh.Notify(LevelWarning, "Warning", msg)
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
