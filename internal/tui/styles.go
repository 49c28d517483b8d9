package tui

import (
	"github.com/charmbracelet/lipgloss"

	"aidesk/internal/assistant"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#94A3B8")
	colorDimmed  = lipgloss.Color("#374151")
	colorText    = lipgloss.Color("#F8FAFC")
	colorPanel   = lipgloss.Color("#1E293B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDimmed).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10)

	focusedLabelStyle = labelStyle.
				Foreground(colorAccent).
				Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	noticeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			Background(colorPanel).
			Foreground(colorText).
			Padding(1, 3).
			Width(60)
)

// levelColor maps a status level to its accent color.
func levelColor(l assistant.Level) lipgloss.Color {
	switch l {
	case assistant.LevelBusy:
		return colorAccent
	case assistant.LevelSuccess:
		return colorSuccess
	case assistant.LevelWarning:
		return colorWarning
	case assistant.LevelError:
		return colorError
	default:
		return colorMuted
	}
}

func statusStyle(l assistant.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(levelColor(l))
}
