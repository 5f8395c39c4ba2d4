package yturl

import "regexp"

// Recognized link shapes: watch?v=<id>, youtu.be/<id>, embed/<id>, plus a
// looser form where v= sits anywhere in the watch query string.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

// Validate reports whether the input contains a recognizable video link.
func Validate(url string) bool {
	return ExtractID(url) != ""
}

// ExtractID returns the 11-character video identifier, or "" if none found.
func ExtractID(url string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(url); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}
