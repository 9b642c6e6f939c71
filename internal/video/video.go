// Package video turns the trailer links admins paste into embeddable URLs.
package video

import (
	"regexp"
	"strings"
)

const embedBase = "https://www.youtube-nocookie.com/embed/"

// Covers watch?v=, &v=, youtu.be/, embed/, v/, u/<x>/ and shorts/ links.
var youtubeRe = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=|shorts/)([^#&?]*).*`)

const idLength = 11

// YouTubeID extracts the video id from a YouTube link.
func YouTubeID(raw string) (string, bool) {
	m := youtubeRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || len(m[2]) != idLength {
		return "", false
	}
	return m[2], true
}

// EmbedURL is the privacy-enhanced player URL for a YouTube link, or false
// when the link is not one.
func EmbedURL(raw string) (string, bool) {
	id, ok := YouTubeID(raw)
	if !ok {
		return "", false
	}
	return embedBase + id + "?autoplay=0&rel=0&modestbranding=1", true
}
