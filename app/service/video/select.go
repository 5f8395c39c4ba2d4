package video

import (
	"regexp"
	"sort"
	"strings"
	"vidgrab/app/client/ytdlp"
)

// Candidate identifiers worth looking for, per quality tier. Earlier
// substrings win.
var qualityPreferences = map[string][]string{
	"maxres":   {"maxresdefault", "maxres"},
	"high":     {"hqdefault", "high"},
	"medium":   {"mqdefault", "medium"},
	"standard": {"sddefault", "standard"},
	"default":  {"default"},
}

// SelectThumbnail picks one candidate URL for the requested quality tier.
// Candidate identifiers are not reliably populated upstream, so an
// identifier-substring pass runs first and resolution buckets back it up.
// Returns false only for an empty candidate list.
func SelectThumbnail(candidates []ytdlp.Thumbnail, tier string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	sorted := make([]ytdlp.Thumbnail, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Width != sorted[j].Width {
			return sorted[i].Width > sorted[j].Width
		}
		return sorted[i].Height > sorted[j].Height
	})

	preferences, ok := qualityPreferences[tier]
	if !ok {
		preferences = []string{"maxresdefault"}
	}

	for _, pref := range preferences {
		for _, thumb := range sorted {
			if strings.Contains(strings.ToLower(thumb.ID), pref) {
				return thumb.URL, true
			}
		}
	}

	switch tier {
	case "maxres":
		return sorted[0].URL, true
	case "high":
		for _, thumb := range sorted {
			if thumb.Width >= 1280 {
				return thumb.URL, true
			}
		}
	case "medium":
		for _, thumb := range sorted {
			if thumb.Width >= 640 && thumb.Width < 1280 {
				return thumb.URL, true
			}
		}
	case "standard":
		for _, thumb := range sorted {
			if thumb.Width >= 480 && thumb.Width < 640 {
				return thumb.URL, true
			}
		}
	}

	return sorted[0].URL, true
}

var illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeTitle makes a video title safe for use in a filename.
func SanitizeTitle(title string) string {
	return illegalFilenameChars.ReplaceAllString(title, "_")
}
