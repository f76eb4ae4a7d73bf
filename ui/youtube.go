package ui

import "regexp"

var youtubeIDRegex = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?v=|embed/|shorts/))([A-Za-z0-9_-]{6,})`)

// YouTubeID extracts the video id from the usual YouTube URL shapes
// (watch, short link, embed, shorts). Empty string when the URL is not
// a recognizable YouTube link.
func YouTubeID(url string) string {
	m := youtubeIDRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
