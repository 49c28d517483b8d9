package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aidesk/internal/assistant"
)

var tabHelp = map[assistant.Tab]string{
	assistant.TabSummarize: "ctrl+s summarize • ctrl+u load URL • ctrl+o load file • ctrl+r read summary • ctrl+l clear • esc cancel",
	assistant.TabChat:      "enter send • ctrl+r read reply • ctrl+l clear • pgup/pgdown scroll • esc cancel",
	assistant.TabSpeech:    "ctrl+s speak • esc stop • ctrl+k chunking • ctrl+↑/↓ chunk size • ctrl+←/→ pause • ctrl+l clear",
	assistant.TabSettings:  "↑/↓ field • ←/→ change • enter apply • ctrl+s save key • ctrl+t test key • ctrl+r models • ctrl+e show key • ctrl+v test voice",
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if n, ok := m.app.Notice(); ok {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, renderNotice(n))
	}

	var body string
	switch m.app.Tab() {
	case assistant.TabSummarize:
		body = m.viewSummarize()
	case assistant.TabChat:
		body = m.viewChat()
	case assistant.TabSpeech:
		body = m.viewSpeech()
	case assistant.TabSettings:
		body = m.viewSettings()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		panelStyle.Width(max(m.width-2, 20)).Render(body),
		m.viewStatus(),
		helpStyle.Render("f1-f4 tabs • f5 about • ctrl+c quit • "+tabHelp[m.app.Tab()]),
	)
}

func (m Model) viewHeader() string {
	tabs := make([]string, 0, len(assistant.Tabs))
	for i, t := range assistant.Tabs {
		label := fmt.Sprintf("F%d %s", i+1, t)
		if t == m.app.Tab() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("aidesk  "), lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) viewStatus() string {
	st := m.app.Status()
	prefix := "● "
	if m.busy() {
		prefix = m.spinner.View() + " "
	}
	return statusStyle(st.Level).Render(prefix + st.Text)
}

func (m Model) viewSummarize() string {
	var b strings.Builder
	b.WriteString(m.summaryInput.View())
	b.WriteString("\n")
	if m.askPath {
		b.WriteString(m.pathInput.View())
		b.WriteString("\n")
	}
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	if m.app.Summarizer.Summary() == "" {
		b.WriteString(helpStyle.Render("No summary yet."))
	} else {
		b.WriteString(m.summaryView.View())
	}
	return b.String()
}

func (m Model) viewChat() string {
	return m.transcript.View() + "\n" + m.chatInput.View()
}

func (m Model) viewSpeech() string {
	sp := m.app.Speech
	opts := sp.Options()
	chunking := "off"
	if opts.Chunking {
		chunking = "on"
	}
	info := fmt.Sprintf("%d characters • voice %s at %d • chunking %s, %d chars, %.1fs pause",
		sp.CharCount(), sp.VoiceID(), sp.Rate(), chunking, opts.ChunkSize, opts.PauseSeconds)

	var b strings.Builder
	b.WriteString(m.speechInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(info))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(sp.Progress() / 100))
	return b.String()
}

func (m Model) viewSettings() string {
	s := m.app.Settings
	voice, ok := s.Voice()

	values := [fieldCount]string{
		m.keyInput.View(),
		fmt.Sprintf("‹ %s ›  in use: %s", s.Model(), m.app.Gateway.Model()),
		fmt.Sprintf("‹ %s ›", s.Language()),
		fmt.Sprintf("‹ %s ›", s.Gender()),
		fmt.Sprintf("‹ %s ›", voiceLabel(voice, ok)),
		fmt.Sprintf("‹ %d ›  in use: %d", s.Rate(), m.app.Speech.Rate()),
	}
	lines := make([]string, 0, fieldCount+2)
	for f := settingsField(0); f < fieldCount; f++ {
		label := labelStyle
		if f == m.settingsFocus {
			label = focusedLabelStyle
		}
		lines = append(lines, label.Render(fieldLabels[f])+" "+values[f])
	}
	switch {
	case s.Testing():
		lines = append(lines, "", helpStyle.Render("Testing API key..."))
	case s.Refreshing():
		lines = append(lines, "", helpStyle.Render("Loading models..."))
	}
	return strings.Join(lines, "\n")
}

func renderTranscript(entries []assistant.Entry, width int) string {
	if len(entries) == 0 {
		return helpStyle.Render("Start the conversation below.")
	}
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case assistant.EntryUser:
			b.WriteString(userStyle.Render("You"))
		case assistant.EntryAssistant:
			b.WriteString(assistantStyle.Render("Assistant"))
		default:
			b.WriteString(systemStyle.Render("System"))
		}
		b.WriteString("\n")
		b.WriteString(wrap(e.Text, width))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func renderNotice(n assistant.Notice) string {
	title := lipgloss.NewStyle().Foreground(levelColor(n.Level)).Bold(true).Render(n.Title)
	return noticeStyle.BorderForeground(levelColor(n.Level)).Render(
		title + "\n\n" + n.Text + "\n\n" + helpStyle.Render("enter to close"))
}
