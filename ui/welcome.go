package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const welcomeGreeting = "Hi! I'm your AI tennis coach. Ask me anything about tennis technique, strategy, or training - or upload a video of your game for computer-vision analysis! 🎾"

// quickQuestions are canned prompts offered on the welcome banner,
// sent with the number keys.
var quickQuestions = []string{
	"How can I improve my forehand?",
	"What racquet should I buy as a beginner?",
	"How do I get more powerful serves?",
}

func quickQuestionForKey(keyName string) (string, bool) {
	if len(keyName) != 1 || keyName[0] < '1' {
		return "", false
	}
	idx := int(keyName[0] - '1')
	if idx >= len(quickQuestions) {
		return "", false
	}
	return quickQuestions[idx], true
}

func renderWelcome(width int) string {
	if width < 30 {
		width = 30
	}
	bodyWidth := width - 6
	if bodyWidth > 70 {
		bodyWidth = 70
	}

	title := TitleStyle.Foreground(successColor).Render("🎾 TCTUI - Tennis Coach")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(wordWrap(welcomeGreeting, bodyWidth))
	b.WriteString("\n\n")
	b.WriteString(TitleStyle.Render("Quick questions:"))
	b.WriteString("\n")
	for i, q := range quickQuestions {
		b.WriteString(fmt.Sprintf("  %s %s\n", SelectedStyle.Render(fmt.Sprintf("[%d]", i+1)), q))
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render("Press a number to ask, type your own question, or Alt+U to upload a video."))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
