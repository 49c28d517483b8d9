package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"aidesk/internal/ai"
	"aidesk/internal/task"
	"aidesk/internal/web"
)

const (
	slotSummarize = "summarize"
	slotLoadURL   = "summarize.url"
	slotLoadFile  = "summarize.file"
)

// Summarizer turns text or a web page into a summary.
type Summarizer struct {
	runner   *task.Runner
	gateway  *ai.Gateway
	fetcher  Fetcher
	speaker  *Speaker
	shell    Shell
	readFile func(string) ([]byte, error)

	Input Field

	summary     string
	busy        bool
	loadingURL  bool
	loadingFile bool
}

// NewSummarizer returns a Summarizer. readFile backs LoadFile.
func NewSummarizer(r *task.Runner, gw *ai.Gateway, f Fetcher, sp *Speaker, sh Shell, readFile func(string) ([]byte, error)) *Summarizer {
	return &Summarizer{runner: r, gateway: gw, fetcher: f, speaker: sp, shell: sh, readFile: readFile}
}

func (s *Summarizer) Summary() string   { return s.summary }
func (s *Summarizer) Busy() bool        { return s.busy }
func (s *Summarizer) LoadingURL() bool  { return s.loadingURL }
func (s *Summarizer) LoadingFile() bool { return s.loadingFile }

// Working reports whether any summarizer task is in flight. Summaries and
// loads share the input, so only one of them may run at a time.
func (s *Summarizer) Working() bool {
	return s.busy || s.loadingURL || s.loadingFile
}

// Summarize summarizes the input. When the input is a URL the page is
// fetched first; a fetch failure is reported as is and nothing is sent
// to the model.
func (s *Summarizer) Summarize() error {
	input := strings.TrimSpace(s.Input.Value())
	if input == "" {
		return invalid(s.shell, "Enter text or a URL to summarize")
	}
	if s.Working() {
		return task.ErrBusy
	}

	snap := s.gateway.Snapshot()
	fetcher := s.fetcher
	isURL := web.IsURL(input)
	work := func(ctx context.Context, _ *task.Progress) (string, error) {
		text := input
		if isURL {
			if fetcher == nil {
				return "", fmt.Errorf("no web fetcher configured")
			}
			page, err := fetcher.FetchText(ctx, input)
			if err != nil {
				return "", err
			}
			text = page
		}
		system, user, err := BuildSummaryPrompts(text)
		if err != nil {
			return "", err
		}
		out, _, err := snap.Generate(ctx, system, []ai.Turn{{Role: ai.RoleUser, Content: user}})
		return strings.TrimSpace(out), err
	}
	if _, err := task.Submit(s.runner, slotSummarize, work, s.finish); err != nil {
		return err
	}
	s.busy = true
	if isURL {
		s.shell.SetStatus("Fetching and summarizing...", LevelBusy)
	} else {
		s.shell.SetStatus("Summarizing...", LevelBusy)
	}
	return nil
}

func (s *Summarizer) finish(o task.Outcome[string]) {
	s.busy = false
	switch o.State {
	case task.Completed:
		s.summary = o.Value
		words := WordCount(o.Value)
		slog.Info("summary generated", "words", words, "elapsed", o.Duration.String())
		s.shell.SetStatus(fmt.Sprintf("Summary ready (%d words)", words), LevelSuccess)
	case task.Cancelled:
		s.shell.SetStatus("Cancelled", LevelWarning)
	default:
		s.shell.Notify(LevelError, "Error", o.Err.Error())
		s.shell.SetStatus("Summarization failed", LevelError)
	}
}

// Cancel asks whichever summarizer task is running to stop.
func (s *Summarizer) Cancel() {
	for _, slot := range []string{slotSummarize, slotLoadURL, slotLoadFile} {
		s.runner.Active(slot).Cancel()
	}
}

// LoadURL replaces the input with the text of the page it names.
func (s *Summarizer) LoadURL() error {
	url := strings.TrimSpace(s.Input.Value())
	if url == "" || !web.IsURL(url) {
		return invalid(s.shell, "Enter a URL starting with http:// or https://")
	}
	if s.Working() {
		return task.ErrBusy
	}
	if s.fetcher == nil {
		return invalid(s.shell, "Web pages cannot be loaded in this build")
	}
	fetcher := s.fetcher
	work := func(ctx context.Context, _ *task.Progress) (string, error) {
		return fetcher.FetchText(ctx, url)
	}
	_, err := task.Submit(s.runner, slotLoadURL, work, func(o task.Outcome[string]) {
		s.loadingURL = false
		s.loaded(url, o)
	})
	if err != nil {
		return err
	}
	s.loadingURL = true
	s.shell.SetStatus("Loading "+url+"...", LevelBusy)
	return nil
}

// LoadFile replaces the input with the contents of a text file.
func (s *Summarizer) LoadFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return invalid(s.shell, "Enter a file path")
	}
	if s.readFile == nil {
		return invalid(s.shell, "Files cannot be loaded in this build")
	}
	if s.Working() {
		return task.ErrBusy
	}
	read := s.readFile
	work := func(context.Context, *task.Progress) (string, error) {
		b, err := read(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	_, err := task.Submit(s.runner, slotLoadFile, work, func(o task.Outcome[string]) {
		s.loadingFile = false
		s.loaded(path, o)
	})
	if err != nil {
		return err
	}
	s.loadingFile = true
	s.shell.SetStatus("Reading "+path+"...", LevelBusy)
	return nil
}

func (s *Summarizer) loaded(source string, o task.Outcome[string]) {
	switch o.State {
	case task.Completed:
		s.Input.Set(o.Value)
		s.shell.SetStatus(fmt.Sprintf("Loaded %d characters from %s", len([]rune(o.Value)), source), LevelSuccess)
	case task.Cancelled:
		s.shell.SetStatus("Cancelled", LevelWarning)
	default:
		s.shell.Notify(LevelError, "Error", o.Err.Error())
		s.shell.SetStatus("Load failed", LevelError)
	}
}

// SpeakSummary reads the summary aloud.
func (s *Summarizer) SpeakSummary() error {
	if strings.TrimSpace(s.summary) == "" {
		return invalid(s.shell, "There is no summary to read yet")
	}
	return s.speaker.SpeakText(s.summary)
}

// Clear empties the input and the summary.
func (s *Summarizer) Clear() {
	s.Input.Set("")
	s.summary = ""
}
