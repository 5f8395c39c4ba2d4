package video

import (
	"testing"
	"vidgrab/app/client/ytdlp"

	"github.com/stretchr/testify/require"
)

func TestSelectThumbnailByIdentifier(t *testing.T) {
	candidates := []ytdlp.Thumbnail{
		{Width: 1920, Height: 1080, ID: "maxresdefault", URL: "https://i.ytimg.com/max.jpg"},
		{Width: 640, Height: 480, ID: "mqdefault", URL: "https://i.ytimg.com/mq.jpg"},
	}

	url, ok := SelectThumbnail(candidates, "maxres")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/max.jpg", url)

	url, ok = SelectThumbnail(candidates, "medium")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/mq.jpg", url)
}

func TestSelectThumbnailIdentifierCaseInsensitive(t *testing.T) {
	candidates := []ytdlp.Thumbnail{
		{Width: 480, Height: 360, ID: "HQDefault", URL: "https://i.ytimg.com/hq.jpg"},
	}

	url, ok := SelectThumbnail(candidates, "high")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/hq.jpg", url)
}

func TestSelectThumbnailResolutionBuckets(t *testing.T) {
	// No identifier text matches any preference.
	candidates := []ytdlp.Thumbnail{
		{Width: 320, Height: 180, ID: "0", URL: "https://i.ytimg.com/a.jpg"},
		{Width: 1920, Height: 1080, ID: "1", URL: "https://i.ytimg.com/b.jpg"},
		{Width: 1280, Height: 720, ID: "2", URL: "https://i.ytimg.com/c.jpg"},
		{Width: 640, Height: 480, ID: "3", URL: "https://i.ytimg.com/d.jpg"},
		{Width: 480, Height: 360, ID: "4", URL: "https://i.ytimg.com/e.jpg"},
	}

	url, ok := SelectThumbnail(candidates, "high")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/b.jpg", url, "first candidate with width >= 1280 after descending sort")

	url, ok = SelectThumbnail(candidates, "medium")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/d.jpg", url, "first candidate with 640 <= width < 1280")
}

func TestSelectThumbnailFallsBackToHighestResolution(t *testing.T) {
	// Nothing matches the standard bucket (480..639) and no identifiers.
	candidates := []ytdlp.Thumbnail{
		{Width: 320, Height: 180, ID: "x", URL: "https://i.ytimg.com/small.jpg"},
		{Width: 336, Height: 188, ID: "y", URL: "https://i.ytimg.com/big.jpg"},
	}

	url, ok := SelectThumbnail(candidates, "standard")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/big.jpg", url)
}

func TestSelectThumbnailUnknownTier(t *testing.T) {
	candidates := []ytdlp.Thumbnail{
		{Width: 120, Height: 90, ID: "default", URL: "https://i.ytimg.com/def.jpg"},
		{Width: 1920, Height: 1080, ID: "maxresdefault", URL: "https://i.ytimg.com/max.jpg"},
	}

	url, ok := SelectThumbnail(candidates, "bogus")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/max.jpg", url, "unknown tier prefers maxresdefault")
}

func TestSelectThumbnailEmpty(t *testing.T) {
	_, ok := SelectThumbnail(nil, "maxres")
	require.False(t, ok)
}

func TestSelectThumbnailMissingDimensions(t *testing.T) {
	candidates := []ytdlp.Thumbnail{
		{ID: "a", URL: "https://i.ytimg.com/a.jpg"},
		{ID: "b", URL: "https://i.ytimg.com/b.jpg"},
	}

	// All widths are zero: stable sort keeps input order, last-resort
	// rule returns the first.
	url, ok := SelectThumbnail(candidates, "high")
	require.True(t, ok)
	require.Equal(t, "https://i.ytimg.com/a.jpg", url)
}

func TestSanitizeTitle(t *testing.T) {
	require.Equal(t, "Test_Video_Name_", SanitizeTitle("Test:Video/Name?"))
	require.Equal(t, "plain title", SanitizeTitle("plain title"))
	require.Equal(t, "a_b_c_d_e_f_g_h_", SanitizeTitle(`a<b>c:d"e/f\g|h?`))
	require.Equal(t, "__", SanitizeTitle("**"))
}
