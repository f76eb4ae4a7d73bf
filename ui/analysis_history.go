package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tctui/storage"
)

const analysisHistoryLimit = 10

// loadAnalysisHistory reads the newest recorded analyses for the
// history modal.
func (a AppView) loadAnalysisHistory() tea.Cmd {
	store := a.dataModel.AnalysisStore
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := store.Recent(analysisHistoryLimit)
		if err != nil {
			return analysisHistoryMsg{err: err}
		}
		count, err := store.Count()
		if err != nil {
			return analysisHistoryMsg{err: err}
		}
		return analysisHistoryMsg{records: records, count: count}
	}
}

func renderAnalysisHistoryModal(records []*storage.AnalysisRecord, count, width, height int) string {
	modalWidth := 64
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(fmt.Sprintf("📊 Analysis History (%d total)", count)), "")

	if len(records) == 0 {
		lines = append(lines, DimStyle.Render("No analyzed videos yet. Upload one with Alt+U."))
	}
	for _, rec := range records {
		when := rec.CreatedAt.Format("2006-01-02 15:04")
		lines = append(lines,
			HighlightStyle.Render(when)+"  "+DimStyle.Render(rec.VideoID),
			DimStyle.Render(fmt.Sprintf("  Frames %d  Players %d  Ball %d  Court %d",
				rec.TotalFrames, rec.PlayerPositions, rec.BallDetections, rec.CourtKeypoints)),
		)
		if feedback := feedbackPreview(rec.CoachingFeedback); feedback != "" {
			lines = append(lines, "  "+runewidth.Truncate(feedback, modalWidth-6, "…"))
		}
		lines = append(lines, "")
	}
	lines = append(lines, DimStyle.Render("Press Enter or Esc to close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

// feedbackPreview reduces coaching feedback to its first line for the
// history listing.
func feedbackPreview(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
