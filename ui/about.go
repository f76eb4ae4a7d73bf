package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderAboutModal(width, height int, version string) string {
	modalWidth := 50
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(modalWidth)

	lines := []string{
		center.Render(TitleStyle.Foreground(successColor).Render("🎾 TCTUI")),
		center.Render("Tennis Coach Terminal UI"),
		"",
		center.Render(DimStyle.Render("Version " + version)),
		"",
		center.Render(wordWrap("Chat with an AI tennis coach and upload match footage for computer-vision analysis, without leaving your terminal.", modalWidth-4)),
		"",
		center.Render(DimStyle.Render("Press Enter or Esc to close")),
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
