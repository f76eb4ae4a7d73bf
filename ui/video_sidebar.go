package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderVideoSidebar draws the recommended training videos panel shown
// next to the conversation.
func (a AppView) renderVideoSidebar(height int) string {
	innerWidth := videoSidebarWidth - 4

	var b strings.Builder
	b.WriteString(TitleStyle.Render("📺 Recommended Videos"))
	b.WriteString("\n")

	for i, v := range a.dataModel.RecommendedVideos {
		b.WriteString("\n")
		b.WriteString(VideoTitleStyle.Render(runewidth.Truncate(v.Title, innerWidth, "…")))
		b.WriteString("\n")
		category := v.Category
		if category == "" {
			category = "Tennis"
		}
		b.WriteString(VideoCategoryStyle.Render(runewidth.Truncate(category, innerWidth, "…")))
		b.WriteString("\n")

		// Short link: YouTube links collapse to youtu.be/<id>
		link := v.URL
		if id := YouTubeID(v.URL); id != "" {
			link = "youtu.be/" + id
		}
		b.WriteString(DimStyle.Render(runewidth.Truncate(link, innerWidth, "…")))
		if i < len(a.dataModel.RecommendedVideos)-1 {
			b.WriteString("\n")
		}
	}

	return SidebarBorderStyle.
		Width(videoSidebarWidth - 2).
		Height(height - 2).
		Render(b.String())
}
