package resolve

import (
	"strings"

	"github.com/aura-ai/aura/internal/clients/serpapi"
)

// officialChannels are publishers whose uploads win outright in pass 1.
var officialChannels = []string{
	"t-series", "sonymusic", "yrf", "saregama", "shemaroo",
	"tips official", "zee music", "eros now", "universal music",
}

// blockedTitleKeywords mark results that are almost never a single song.
var blockedTitleKeywords = []string{"playlist", "jukebox", "compilation", "hits"}

// rankVideos picks one video from an ordered result list with a three-pass
// priority system:
//
//  1. first result from an official publisher channel,
//  2. first result that is neither a playlist-style title nor an hours-long
//     video (a duration with two colons),
//  3. the first raw result, so a non-empty list always yields an answer.
//
// Returns false only for an empty list.
func rankVideos(videos []serpapi.Video) (serpapi.Video, bool) {
	if len(videos) == 0 {
		return serpapi.Video{}, false
	}

	// Pass 1: official channels
	for _, v := range videos {
		channel := strings.ToLower(v.Channel)
		for _, official := range officialChannels {
			if strings.Contains(channel, official) {
				return v, true
			}
		}
	}

	// Pass 2: filter playlists and hours-long videos
	for _, v := range videos {
		if blockedTitle(v.Title) {
			continue
		}
		if strings.Count(v.Length, ":") == 2 {
			continue
		}
		return v, true
	}

	// Pass 3: fallback
	return videos[0], true
}

func blockedTitle(title string) bool {
	title = strings.ToLower(title)
	for _, kw := range blockedTitleKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// embedURL converts a watch link to its embeddable form. Returns "" when the
// link has no video id.
func embedURL(link string) string {
	_, after, found := strings.Cut(link, "v=")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
