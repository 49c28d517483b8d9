// Package tui renders the assistant as a full-screen terminal interface.
// The bubbletea Update loop is the only goroutine that touches the
// controllers; task completions arrive as dispatchMsg values.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aidesk/internal/assistant"
	"aidesk/internal/speech"
	"aidesk/internal/task"
)

type settingsField int

const (
	fieldKey settingsField = iota
	fieldModel
	fieldLanguage
	fieldGender
	fieldVoice
	fieldRate
	fieldCount
)

var fieldLabels = [fieldCount]string{"API key", "Model", "Language", "Gender", "Voice", "Rate"}

const (
	chunkStep = 50
	pauseStep = 0.5
	rateStep  = 10
)

// Model is the bubbletea model for the whole application.
type Model struct {
	app *assistant.App

	width  int
	height int
	ready  bool

	summaryInput textarea.Model
	chatInput    textarea.Model
	speechInput  textarea.Model
	pathInput    textinput.Model
	keyInput     textinput.Model
	summaryView  viewport.Model
	transcript   viewport.Model
	spinner      spinner.Model
	progress     progress.Model

	askPath       bool
	settingsFocus settingsField
	revs          map[*assistant.Field]int
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(6)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	return ta
}

// New builds the interface for app. app.Start should already have run.
func New(app *assistant.App) Model {
	chat := newTextarea("Type a message (Enter to send, Ctrl+J for a new line)")
	chat.SetHeight(3)
	chat.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))

	path := textinput.New()
	path.Placeholder = "path/to/file.txt"
	path.Prompt = "File: "

	apiKey := textinput.New()
	apiKey.Placeholder = "API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := Model{
		app:          app,
		summaryInput: newTextarea("Paste text or a URL to summarize"),
		chatInput:    chat,
		speechInput:  newTextarea("Text to read aloud"),
		pathInput:    path,
		keyInput:     apiKey,
		summaryView:  viewport.New(80, 8),
		transcript:   viewport.New(80, 12),
		spinner:      sp,
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		revs:         make(map[*assistant.Field]int),
	}
	m.refresh()
	m.focusTab()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg.fn()
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.ready = true
	inner := max(w-6, 20)
	for _, ta := range []*textarea.Model{&m.summaryInput, &m.chatInput, &m.speechInput} {
		ta.SetWidth(inner)
	}
	m.summaryInput.SetHeight(max(h/4, 3))
	m.speechInput.SetHeight(max(h/3, 3))
	m.summaryView.Width = inner
	m.summaryView.Height = max(h-m.summaryInput.Height()-12, 3)
	m.transcript.Width = inner
	m.transcript.Height = max(h-m.chatInput.Height()-10, 3)
	m.progress.Width = min(inner, 60)
	m.keyInput.Width = min(inner-12, 60)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.app.Shutdown()
		return m, tea.Quit
	}
	if _, ok := m.app.Notice(); ok {
		switch msg.String() {
		case "enter", "esc", " ":
			m.app.Dismiss()
		}
		return m, nil
	}

	switch msg.String() {
	case "f1":
		return m.switchTab(assistant.TabSummarize)
	case "f2":
		return m.switchTab(assistant.TabChat)
	case "f3":
		return m.switchTab(assistant.TabSpeech)
	case "f4":
		return m.switchTab(assistant.TabSettings)
	case "f5":
		m.app.About()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.app.Tab() {
	case assistant.TabSummarize:
		cmd = m.summarizeKey(msg)
	case assistant.TabChat:
		cmd = m.chatKey(msg)
	case assistant.TabSpeech:
		cmd = m.speechKey(msg)
	case assistant.TabSettings:
		cmd = m.settingsKey(msg)
	}
	m.refresh()
	return m, cmd
}

func (m Model) switchTab(t assistant.Tab) (tea.Model, tea.Cmd) {
	m.app.SetTab(t)
	m.askPath = false
	return m, m.focusTab()
}

func (m *Model) focusTab() tea.Cmd {
	m.summaryInput.Blur()
	m.chatInput.Blur()
	m.speechInput.Blur()
	m.pathInput.Blur()
	m.keyInput.Blur()
	switch m.app.Tab() {
	case assistant.TabSummarize:
		if m.askPath {
			return m.pathInput.Focus()
		}
		return m.summaryInput.Focus()
	case assistant.TabChat:
		return m.chatInput.Focus()
	case assistant.TabSpeech:
		return m.speechInput.Focus()
	case assistant.TabSettings:
		if m.settingsFocus == fieldKey {
			return m.keyInput.Focus()
		}
	}
	return nil
}

// report turns errors the controllers did not surface into a status.
func (m *Model) report(err error) {
	if errors.Is(err, task.ErrBusy) {
		m.app.SetStatus("Still working on the previous request", assistant.LevelWarning)
	}
}

func (m *Model) summarizeKey(msg tea.KeyMsg) tea.Cmd {
	s := m.app.Summarizer
	if m.askPath {
		switch msg.String() {
		case "enter":
			m.report(s.LoadFile(m.pathInput.Value()))
			m.pathInput.SetValue("")
			m.askPath = false
			return m.focusTab()
		case "esc":
			m.askPath = false
			return m.focusTab()
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "ctrl+s":
		m.report(s.Summarize())
	case "ctrl+u":
		m.report(s.LoadURL())
	case "ctrl+o":
		if s.Working() {
			m.report(task.ErrBusy)
			break
		}
		m.askPath = true
		return m.focusTab()
	case "ctrl+r":
		m.report(s.SpeakSummary())
	case "ctrl+l":
		s.Clear()
	case "esc":
		s.Cancel()
		m.app.Speech.Stop()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.summaryView, cmd = m.summaryView.Update(msg)
		return cmd
	default:
		if s.Working() {
			return nil
		}
		var cmd tea.Cmd
		m.summaryInput, cmd = m.summaryInput.Update(msg)
		s.Input.Sync(m.summaryInput.Value())
		return cmd
	}
	return nil
}

func (m *Model) chatKey(msg tea.KeyMsg) tea.Cmd {
	c := m.app.Chat
	switch msg.String() {
	case "enter":
		m.report(c.Send())
	case "ctrl+r":
		m.report(c.ReadLast())
	case "ctrl+l":
		c.Clear()
	case "esc":
		c.Cancel()
		m.app.Speech.Stop()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return cmd
	default:
		if c.Busy() {
			return nil
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		c.Input.Sync(m.chatInput.Value())
		return cmd
	}
	return nil
}

func (m *Model) speechKey(msg tea.KeyMsg) tea.Cmd {
	sp := m.app.Speech
	opts := sp.Options()
	switch msg.String() {
	case "ctrl+s":
		m.report(sp.Speak())
	case "esc", "ctrl+x":
		sp.Stop()
	case "ctrl+l":
		sp.Clear()
	case "ctrl+k":
		opts.Chunking = !opts.Chunking
		sp.SetOptions(opts)
	case "ctrl+up":
		opts.ChunkSize += chunkStep
		sp.SetOptions(opts)
	case "ctrl+down":
		opts.ChunkSize = max(opts.ChunkSize-chunkStep, chunkStep)
		sp.SetOptions(opts)
	case "ctrl+right":
		opts.PauseSeconds += pauseStep
		sp.SetOptions(opts)
	case "ctrl+left":
		opts.PauseSeconds = max(opts.PauseSeconds-pauseStep, 0)
		sp.SetOptions(opts)
	default:
		var cmd tea.Cmd
		m.speechInput, cmd = m.speechInput.Update(msg)
		sp.Input.Sync(m.speechInput.Value())
		return cmd
	}
	return nil
}

func (m *Model) settingsKey(msg tea.KeyMsg) tea.Cmd {
	s := m.app.Settings
	switch msg.String() {
	case "up", "shift+tab":
		m.settingsFocus = (m.settingsFocus + fieldCount - 1) % fieldCount
		return m.focusTab()
	case "down", "tab":
		m.settingsFocus = (m.settingsFocus + 1) % fieldCount
		return m.focusTab()
	case "ctrl+s":
		m.report(s.SaveKey())
	case "ctrl+t":
		m.report(s.TestKey())
	case "ctrl+r":
		m.report(s.RefreshModels())
	case "ctrl+e":
		s.ToggleShowKey()
	case "ctrl+v":
		m.report(s.TestVoice())
	case "ctrl+a":
		m.report(s.ApplyVoice())
	case "esc":
		m.app.Speech.Stop()
	case "enter":
		switch m.settingsFocus {
		case fieldKey:
			m.report(s.SaveKey())
		case fieldModel:
			m.report(s.ApplyModel())
		default:
			m.report(s.ApplyVoice())
		}
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		if m.settingsFocus == fieldKey {
			var cmd tea.Cmd
			m.keyInput, cmd = m.keyInput.Update(msg)
			return cmd
		}
		m.adjust(delta)
	default:
		if m.settingsFocus != fieldKey {
			return nil
		}
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		s.Key.Sync(m.keyInput.Value())
		return cmd
	}
	return nil
}

// adjust moves the focused settings selector by delta.
func (m *Model) adjust(delta int) {
	s := m.app.Settings
	switch m.settingsFocus {
	case fieldModel:
		if next, ok := step(s.Models(), s.Model(), delta); ok {
			s.SelectModel(next)
		}
	case fieldLanguage:
		if next, ok := step(s.Languages(), s.Language(), delta); ok {
			s.SetLanguage(next)
		}
	case fieldGender:
		if next, ok := step(s.Genders(), s.Gender(), delta); ok {
			s.SetGender(next)
		}
	case fieldVoice:
		ids := make([]string, 0)
		for _, v := range s.Voices() {
			ids = append(ids, v.ID)
		}
		cur, _ := s.Voice()
		if next, ok := step(ids, cur.ID, delta); ok {
			s.SelectVoice(next)
		}
	case fieldRate:
		s.SetRate(s.Rate() + delta*rateStep)
	}
}

// step returns the item delta places after cur, wrapping around. A cur
// missing from items selects the first item.
func step[T comparable](items []T, cur T, delta int) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	for i, it := range items {
		if it == cur {
			return items[((i+delta)%len(items)+len(items))%len(items)], true
		}
	}
	return items[0], true
}

// refresh copies controller state into the widgets.
func (m *Model) refresh() {
	m.syncField(&m.app.Summarizer.Input, m.summaryInput.SetValue)
	m.syncField(&m.app.Chat.Input, m.chatInput.SetValue)
	m.syncField(&m.app.Speech.Input, m.speechInput.SetValue)
	m.syncField(&m.app.Settings.Key, m.keyInput.SetValue)

	if m.app.Settings.ShowKey() {
		m.keyInput.EchoMode = textinput.EchoNormal
	} else {
		m.keyInput.EchoMode = textinput.EchoPassword
	}

	m.summaryView.SetContent(wrap(m.app.Summarizer.Summary(), m.summaryView.Width))
	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(renderTranscript(m.app.Chat.Transcript(), m.transcript.Width))
	if atBottom {
		m.transcript.GotoBottom()
	}
}

func (m *Model) syncField(f *assistant.Field, set func(string)) {
	if m.revs[f] == f.Rev() {
		return
	}
	set(f.Value())
	m.revs[f] = f.Rev()
}

func (m Model) busy() bool {
	a := m.app
	return a.Summarizer.Working() || a.Chat.Busy() ||
		a.Speech.Speaking() || a.Settings.Testing() || a.Settings.Refreshing()
}

func voiceLabel(v speech.Voice, ok bool) string {
	if !ok {
		return "(none)"
	}
	return v.Name
}
