package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	appmodel "tctui/model"
)

// EntryMatch is one search hit in the conversation log.
type EntryMatch struct {
	Index     int
	Role      string
	Timestamp time.Time
	Preview   string
}

// searchEntries fuzzy-matches the query against every entry's content.
func searchEntries(query string, entries []appmodel.Entry) []EntryMatch {
	if query == "" {
		return nil
	}

	contents := make([]string, len(entries))
	for i, e := range entries {
		contents[i] = e.Content
	}

	var results []EntryMatch
	for _, m := range fuzzy.Find(query, contents) {
		e := entries[m.Index]
		results = append(results, EntryMatch{
			Index:     m.Index,
			Role:      string(e.Role),
			Timestamp: e.Timestamp,
			Preview:   previewText(e.Content, 80),
		})
	}
	return results
}

func previewText(s string, max int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > max {
		runes = append(runes[:max], '…')
	}
	return string(runes)
}

func (a AppView) handleMessageSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		return a, nil

	case "up", "alt+k":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			if a.selectedSearchIdx < a.messageSearchScrollIdx {
				a.messageSearchScrollIdx = a.selectedSearchIdx
			}
		}
		return a, nil

	case "down", "alt+j":
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
			if a.selectedSearchIdx >= a.messageSearchScrollIdx+5 {
				a.messageSearchScrollIdx++
			}
		}
		return a, nil

	case "enter":
		if a.selectedSearchIdx < len(a.messageSearchResults) {
			target := a.messageSearchResults[a.selectedSearchIdx].Index
			a.showMessageSearch = false
			a.messageSearchInput.Blur()
			a.jumpToEntry(target)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)
	a.messageSearchResults = searchEntries(a.messageSearchInput.Value(), a.dataModel.Log.All())
	a.selectedSearchIdx = 0
	a.messageSearchScrollIdx = 0
	return a, cmd
}

func renderMessageSearch(searchInput textinput.Model, results []EntryMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search Conversation")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search the conversation...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Border(2) + Padding(2) + Title(1) + Blank(1) + Input(1) +
		// Blank(1) + Count(1) + Blank(1) + Footer(1) + Blank(1)
		fixedOverhead := 12
		availableLines := height - fixedOverhead - 4
		if availableLines < 3 {
			availableLines = 3
		}

		linesPerResult := 3
		maxVisibleResults := availableLines / linesPerResult
		if maxVisibleResults < 1 {
			maxVisibleResults = 1
		}

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisibleResults
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))

		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above\n\n", startIdx))
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Role == "assistant" {
				roleStyle = CoachStyle
			}

			matchText := fmt.Sprintf("%s [%s]\n  %s",
				roleStyle.Render(match.Role),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				match.Preview,
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}

			resultsView += matchText + "\n\n"
		}

		if endIdx < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
