package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-ai/aura/internal/clients/serpapi"
)

func video(title, link, channel, length string) serpapi.Video {
	return serpapi.Video{Title: title, Link: link, Channel: channel, Length: length}
}

func TestRankVideos_OfficialChannelWinsRegardlessOfPosition(t *testing.T) {
	videos := []serpapi.Video{
		video("Saiyara cover", "https://www.youtube.com/watch?v=aaa", "Random Covers", "4:01"),
		video("Saiyara reaction", "https://www.youtube.com/watch?v=bbb", "React Crew", "10:22"),
		video("Saiyara (Official Video)", "https://www.youtube.com/watch?v=ccc", "T-Series", "4:12"),
	}

	winner, ok := rankVideos(videos)
	require.True(t, ok)
	assert.Equal(t, "ccc", winner.Link[len(winner.Link)-3:])
}

func TestRankVideos_FirstOfficialByIndexWins(t *testing.T) {
	videos := []serpapi.Video{
		video("Song", "https://www.youtube.com/watch?v=aaa", "Zee Music Company", "4:00"),
		video("Song", "https://www.youtube.com/watch?v=bbb", "T-Series", "4:00"),
	}

	winner, ok := rankVideos(videos)
	require.True(t, ok)
	assert.Contains(t, winner.Link, "v=aaa")
}

func TestRankVideos_ChannelMatchIsCaseInsensitive(t *testing.T) {
	videos := []serpapi.Video{
		video("Song", "https://www.youtube.com/watch?v=aaa", "SAREGAMA Music", "4:00"),
	}

	winner, ok := rankVideos(videos)
	require.True(t, ok)
	assert.Contains(t, winner.Link, "v=aaa")
}

func TestRankVideos_PassTwoSkipsBlockedTitlesAndHours(t *testing.T) {
	videos := []serpapi.Video{
		video("Best Hits Playlist", "https://www.youtube.com/watch?v=aaa", "Random", "45:00"),
		video("Nonstop Jukebox", "https://www.youtube.com/watch?v=bbb", "Random", "52:10"),
		video("Full Movie", "https://www.youtube.com/watch?v=ccc", "Random", "2:14:33"),
		video("Saiyara Song", "https://www.youtube.com/watch?v=ddd", "Random", "4:10"),
	}

	winner, ok := rankVideos(videos)
	require.True(t, ok)
	assert.Contains(t, winner.Link, "v=ddd")
}

func TestRankVideos_PassThreeReturnsFirstRawResult(t *testing.T) {
	videos := []serpapi.Video{
		video("Top 100 Hits Compilation", "https://www.youtube.com/watch?v=aaa", "Random", "3:01:00"),
		video("Mega Playlist", "https://www.youtube.com/watch?v=bbb", "Random", "1:40:00"),
	}

	winner, ok := rankVideos(videos)
	require.True(t, ok)
	assert.Contains(t, winner.Link, "v=aaa")
}

func TestRankVideos_EmptyList(t *testing.T) {
	_, ok := rankVideos(nil)
	assert.False(t, ok)
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ",
		embedURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ",
		embedURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=RD123"))
	assert.Empty(t, embedURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.Empty(t, embedURL(""))
}
