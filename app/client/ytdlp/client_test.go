package ytdlp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSelector(t *testing.T) {
	require.Equal(t, "best[ext=mp4]/best", formatSelector("best", MediaVideo))
	require.Equal(t, "worst[ext=mp4]/worst", formatSelector("worst", MediaVideo))
	require.Equal(t, "bestvideo[height<=720]+bestaudio/best[height<=720]", formatSelector("720", MediaVideo))

	// The audio branch ignores the quality selector entirely.
	require.Equal(t, "bestaudio/best", formatSelector("best", MediaAudio))
	require.Equal(t, "bestaudio/best", formatSelector("worst", MediaAudio))
	require.Equal(t, "bestaudio/best", formatSelector("480", MediaAudio))

	// Garbage quality falls back to best.
	require.Equal(t, "best[ext=mp4]/best", formatSelector("potato", MediaVideo))
}

func TestPostProcessArgs(t *testing.T) {
	require.Equal(t, []string{"-x", "--audio-format", "mp3", "--audio-quality", "192K"}, postProcessArgs(MediaAudio))
	require.Equal(t, []string{"--merge-output-format", "mp4"}, postProcessArgs(MediaVideo))
}

func TestParseProgressLine(t *testing.T) {
	p, ok := parseProgressLine(`{"downloaded_bytes":512,"total_bytes":1024,"percent":" 50.0%","status":"downloading"}`)
	require.True(t, ok)
	require.False(t, p.Indeterminate)
	require.InDelta(t, 50.0, p.Percent, 0.01)
	require.Equal(t, "downloading", p.Status)

	// No byte totals: fall back to the percent string.
	p, ok = parseProgressLine(`{"downloaded_bytes":512,"total_bytes":null,"percent":" 42.3%","status":"downloading"}`)
	require.True(t, ok)
	require.False(t, p.Indeterminate)
	require.InDelta(t, 42.3, p.Percent, 0.01)

	// Neither totals nor a parseable percentage: indeterminate.
	p, ok = parseProgressLine(`{"downloaded_bytes":null,"total_bytes":null,"percent":"  N/A","status":"downloading"}`)
	require.True(t, ok)
	require.True(t, p.Indeterminate)

	p, ok = parseProgressLine(`{"downloaded_bytes":1024,"total_bytes":1024,"percent":"100.0%","status":"finished"}`)
	require.True(t, ok)
	require.Equal(t, "finished", p.Status)
	require.InDelta(t, 100.0, p.Percent, 0.01)

	_, ok = parseProgressLine(`not json`)
	require.False(t, ok)
}

func TestToMetadataDefaults(t *testing.T) {
	var info infoJSON
	require.NoError(t, json.Unmarshal([]byte(`{"id":"dQw4w9WgXcQ"}`), &info))

	meta := info.toMetadata("https://youtu.be/dQw4w9WgXcQ")
	require.Equal(t, "Unknown", meta.Title)
	require.Equal(t, "Unknown", meta.Uploader)
	require.Equal(t, "Unknown", meta.UploadDate)
	require.EqualValues(t, 0, meta.ViewCount)
	require.EqualValues(t, 0, meta.LikeCount)
	require.EqualValues(t, 0, meta.Duration)
	require.NotNil(t, meta.Thumbnails)
	require.Empty(t, meta.Thumbnails)
	require.NotNil(t, meta.Comments)
	require.Empty(t, meta.Comments)
	require.Equal(t, "https://youtu.be/dQw4w9WgXcQ", meta.SourceURL)
}

func TestToMetadataFull(t *testing.T) {
	raw := `{
		"id": "dQw4w9WgXcQ",
		"title": "Some Video",
		"uploader": "Some Channel",
		"view_count": 1000,
		"like_count": 50,
		"upload_date": "20231201",
		"duration": 212.5,
		"description": "desc",
		"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"thumbnails": [
			{"id": "maxresdefault", "url": "https://i.ytimg.com/max.jpg", "width": 1920, "height": 1080},
			{"id": "mqdefault", "url": "https://i.ytimg.com/mq.jpg"}
		],
		"comments": [
			{"author": "a", "text": "nice", "like_count": 3, "timestamp": 1700000000}
		]
	}`

	var info infoJSON
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	meta := info.toMetadata("https://youtu.be/dQw4w9WgXcQ")
	require.Equal(t, "Some Video", meta.Title)
	require.EqualValues(t, 212, meta.Duration)
	require.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", meta.SourceURL)
	require.Len(t, meta.Thumbnails, 2)
	require.Equal(t, 1920, meta.Thumbnails[0].Width)
	require.Zero(t, meta.Thumbnails[1].Width)
	require.Len(t, meta.Comments, 1)
	require.EqualValues(t, 1700000000, meta.Comments[0].Timestamp)
}
