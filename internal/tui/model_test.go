package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aidesk/internal/ai"
	"aidesk/internal/assistant"
	"aidesk/internal/speech"
	"aidesk/internal/task"
)

func testModel(t *testing.T) Model {
	t.Helper()
	app := assistant.New(assistant.Deps{
		Dispatcher: task.NewLoop(),
		Gateway:    ai.NewGateway("gemini", "", "", ""),
		Catalog: speech.NewCatalog([]speech.Voice{
			{ID: "en", Name: "David", Locale: "en-US"},
			{ID: "vi", Name: "Vietnam Female", Locale: "vi-VN"},
		}, nil),
		VoiceID: "en",
		Rate:    200,
	})
	app.Start()
	m := New(app)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestStartsOnSettingsWithoutKey(t *testing.T) {
	m := testModel(t)
	if m.app.Tab() != assistant.TabSettings {
		t.Fatalf("tab = %s", m.app.Tab())
	}
	if !strings.Contains(m.View(), "API key not configured") {
		t.Fatalf("status missing from view")
	}
}

func TestTypingSyncsControllerInput(t *testing.T) {
	m := testModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF1}, runes("h"), runes("i"))
	if got := m.app.Summarizer.Input.Value(); got != "hi" {
		t.Fatalf("input = %q", got)
	}

	m.app.Summarizer.Input.Set("replaced")
	m.refresh()
	if m.summaryInput.Value() != "replaced" {
		t.Fatalf("widget = %q", m.summaryInput.Value())
	}
}

func TestEmptySummarizeShowsNotice(t *testing.T) {
	m := testModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF1}, tea.KeyMsg{Type: tea.KeyCtrlS})
	if _, ok := m.app.Notice(); !ok {
		t.Fatalf("expected a notice")
	}
	if !strings.Contains(m.View(), "Enter text or a URL") {
		t.Fatalf("notice not rendered")
	}
	// Keys other than dismiss are swallowed while a notice is open.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if m.app.Tab() != assistant.TabSummarize {
		t.Fatalf("tab changed under a notice")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.app.Notice(); ok {
		t.Fatalf("notice should be dismissed")
	}
}

func TestFilePromptRefusedWhileSummarizing(t *testing.T) {
	m := testModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyF1}, runes("some text"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.app.Summarizer.Working() {
		t.Fatalf("summary should be in flight")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.askPath {
		t.Fatalf("file prompt opened during a summary")
	}
	if st := m.app.Status(); st.Text != "Still working on the previous request" {
		t.Fatalf("status = %+v", st)
	}
}

func TestSettingsCycleVoice(t *testing.T) {
	m := testModel(t)
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyDown}, // model
		tea.KeyMsg{Type: tea.KeyDown}, // language
		tea.KeyMsg{Type: tea.KeyLeft},
	)
	if m.app.Settings.Language() != speech.Vietnamese {
		t.Fatalf("language = %s", m.app.Settings.Language())
	}
	if v, _ := m.app.Settings.Voice(); v.ID != "vi" {
		t.Fatalf("voice = %+v", v)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRight})
	if m.app.Settings.Rate() != 210 {
		t.Fatalf("rate = %d", m.app.Settings.Rate())
	}
}

func TestStep(t *testing.T) {
	items := []string{"a", "b", "c"}
	cases := []struct {
		cur   string
		delta int
		want  string
	}{
		{"a", 1, "b"},
		{"c", 1, "a"},
		{"a", -1, "c"},
		{"x", 1, "a"},
	}
	for _, tc := range cases {
		if got, _ := step(items, tc.cur, tc.delta); got != tc.want {
			t.Errorf("step(%q, %d) = %q, want %q", tc.cur, tc.delta, got, tc.want)
		}
	}
	if _, ok := step([]string(nil), "a", 1); ok {
		t.Errorf("empty list should report false")
	}
}

func TestDispatcherHoldsUntilAttached(t *testing.T) {
	d := NewDispatcher()
	ran := make(chan string, 2)
	d.Dispatch(func() { ran <- "early" })

	msgs := make(chan tea.Msg, 2)
	d.attach(func(msg tea.Msg) { msgs <- msg })
	d.Dispatch(func() { ran <- "late" })

	for i := 0; i < 2; i++ {
		select {
		case msg := <-msgs:
			msg.(dispatchMsg).fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("dispatch %d never arrived", i)
		}
	}
	got := map[string]bool{<-ran: true, <-ran: true}
	if !got["early"] || !got["late"] {
		t.Fatalf("ran = %v", got)
	}
}
