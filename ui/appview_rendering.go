package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"tctui/config"
	appmodel "tctui/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if a.dataModel.Log.Len() == 0 {
		if a.dataModel.ShowWelcome {
			a.viewport.SetContent(renderWelcome(a.viewport.Width))
		} else {
			a.viewport.SetContent("No messages yet. Ask your coach something!")
		}
		a.entryLineOffsets = nil
		return
	}

	var content strings.Builder
	offsets := make([]int, 0, a.dataModel.Log.Len())
	lineCount := 0

	for i, entry := range a.dataModel.Log.All() {
		offsets = append(offsets, lineCount)

		highlightPrefix := ""
		if i == a.highlightedEntryIdx {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}

		block := a.renderEntry(highlightPrefix, entry)
		content.WriteString(block)
		lineCount += strings.Count(block, "\n")
	}

	a.entryLineOffsets = offsets
	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) renderEntry(highlightPrefix string, entry appmodel.Entry) string {
	timestamp := DimStyle.Render(entry.Timestamp.Format("[15:04]"))

	rendered := entry.Rendered
	if rendered == "" {
		rendered = entry.Content
	}

	switch {
	case entry.Role == appmodel.RoleUser:
		// Uploads keep their one-line form, chat goes through the bar
		// formatting
		role := UserStyle.Render("You")
		return formatUserMessage(highlightPrefix, timestamp, role, rendered)

	case entry.Kind == appmodel.KindError:
		role := ErrorStyle.Render("Coach")
		return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, role, ErrorStyle.Render(entry.Content))

	case entry.Kind == appmodel.KindVideoAnalysis:
		role := CoachStyle.Render("Coach")
		card := renderAnalysisCard(entry.Attachment, a.viewport.Width-4)
		return fmt.Sprintf("%s%s %s\n%s\n%s\n\n", highlightPrefix, timestamp, role, rendered, card)

	default:
		role := CoachStyle.Render("Coach")
		return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, role, rendered)
	}
}

// renderAnalysisCard draws the computer-vision counters and processed
// video link attached to a completed analysis.
func renderAnalysisCard(att *appmodel.Attachment, width int) string {
	if att == nil {
		return ""
	}
	if width > 60 {
		width = 60
	}

	var lines []string
	if att.HasSummary {
		lines = append(lines,
			TitleStyle.Render("📊 Analysis Summary"),
			fmt.Sprintf("Frames analyzed:   %d", att.Summary.TotalFrames),
			fmt.Sprintf("Player positions:  %d", att.Summary.PlayerPositions),
			fmt.Sprintf("Ball detections:   %d", att.Summary.BallDetections),
			fmt.Sprintf("Court keypoints:   %d", att.Summary.CourtKeypoints),
		)
	}
	if att.ProcessedVideoURL != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, DimStyle.Render("Processed video: ")+att.ProcessedVideoURL)
	}
	if len(lines) == 0 {
		return ""
	}

	return AnalysisCardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// jumpToEntry scrolls the viewport so the given entry is visible and
// flags it for highlighting.
func (a *AppView) jumpToEntry(idx int) {
	a.highlightedEntryIdx = idx
	a.updateViewportContent(false)
	if idx >= 0 && idx < len(a.entryLineOffsets) {
		a.viewport.SetYOffset(a.entryLineOffsets[idx])
	}
}

func (a AppView) renderEntryAsync(entryIndex int) tea.Cmd {
	if entryIndex < 0 || entryIndex >= a.dataModel.Log.Len() {
		return nil
	}
	entry := a.dataModel.Log.At(entryIndex)
	if entry.Rendered != "" {
		return nil
	}
	// Upload notices and error apologies are plain text, markdown
	// rendering would only mangle the emoji lines
	if entry.Kind == appmodel.KindVideoUpload || entry.Kind == appmodel.KindError {
		return nil
	}

	content := entry.Content
	width := a.viewport.Width
	if width < 24 {
		width = 80
	}

	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("Starting async markdown render for entry %d - length: %d chars", entryIndex, len(content))
		}
		startTime := time.Now()

		// Preprocess: strip markdown link syntax [text](url) → url
		processed := preprocessLinks(content)

		// Render with go-term-markdown. Autolink stays disabled so
		// URLs remain plain text the terminal can make clickable.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(processed))
		rendered := gomarkdown.Render(doc, r)

		final := postProcessMarkdown(string(rendered), width)

		if config.DebugLog != nil {
			config.DebugLog.Printf("Markdown rendered in %v", time.Since(startTime))
		}

		return entryRenderedMsg{
			Index:    entryIndex,
			Content:  content,
			Rendered: strings.TrimRight(final, "\n"),
		}
	}
}

func postProcessMarkdown(rendered string, width int) string {
	// Inline code: blue background → red text
	rendered = fixInlineCode(rendered)

	// Color plain URLs red (autolink disabled keeps URLs plain)
	rendered = fixMarkdownLinks(rendered)

	return rendered
}

func preprocessLinks(content string) string {
	// Strip markdown link syntax [text](url) → just url
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Skip code blocks (they carry the ┃ prefix from rendering)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}
