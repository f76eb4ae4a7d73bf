package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	modalWidth := 56
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	type binding struct {
		keys string
		desc string
	}
	bindings := []binding{
		{"Enter", "Send message"},
		{"Alt+Enter", "Insert newline"},
		{"1-3", "Ask a quick question (welcome screen)"},
		{"Alt+U", "Upload a video for analysis"},
		{"Alt+R", "Reset the conversation"},
		{"Alt+F", "Search the conversation"},
		{"Alt+V", "Toggle the video sidebar"},
		{"Alt+Y", "Copy the last coach reply"},
		{"Alt+S", "Analysis history"},
		{"PgUp/PgDn", "Scroll the conversation"},
		{"Alt+A", "About"},
		{"Alt+Q", "Quit"},
	}

	var lines []string
	lines = append(lines, TitleStyle.Render("Keyboard Shortcuts"), "")
	keyStyle := lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	for _, b := range bindings {
		lines = append(lines, "  "+keyStyle.Render(padRight(b.keys, 12))+b.desc)
	}
	lines = append(lines, "", DimStyle.Render("Press Enter or Esc to close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func renderResetConfirmModal(width, height int) string {
	modalWidth := 56
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("⚠  Reset Conversation")

	body := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(wordWrap("This clears the whole conversation, the recommended videos, and any running video analysis. The coach forgets everything discussed so far.", modalWidth-4))

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(FormatFooter("y", "Reset", "n/Esc", "Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(warningColor).
		Padding(1, 2).
		Render(strings.Join([]string{title, "", body, "", footer}, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
