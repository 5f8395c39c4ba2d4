package ytdlp

// MediaType selects which stream of a video gets downloaded.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Metadata is the typed projection of a yt-dlp info dump, with defaults
// applied for every field the extractor may omit.
type Metadata struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Uploader    string      `json:"uploader"`
	ViewCount   int64       `json:"view_count"`
	LikeCount   int64       `json:"like_count"`
	UploadDate  string      `json:"upload_date"`
	Duration    int64       `json:"duration"`
	Description string      `json:"description"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	Comments    []Comment   `json:"comments"`
	SourceURL   string      `json:"source_url"`
}

// Thumbnail is a single candidate image as reported by the extractor.
// Width and height may be absent upstream and default to 0.
type Thumbnail struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	ID     string `json:"id"`
	URL    string `json:"url"`
}

// Comment is a single video comment.
type Comment struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	LikeCount int64  `json:"like_count"`
	Timestamp int64  `json:"timestamp"`
}

// DownloadRequest describes one media download action.
type DownloadRequest struct {
	URL       string
	Dir       string
	Quality   string // best | worst | <numeric height>
	MediaType MediaType
}

// Progress is a single progress event from a running download.
type Progress struct {
	Status        string  // downloading | finished
	Percent       float64 // 0..100, meaningless when Indeterminate
	Indeterminate bool
}

// infoJSON mirrors the subset of the yt-dlp -J output we consume.
type infoJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   int64   `json:"like_count"`
	UploadDate  string  `json:"upload_date"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
	WebpageURL  string  `json:"webpage_url"`
	Thumbnails  []struct {
		ID     string `json:"id"`
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnails"`
	Comments []struct {
		Author    string  `json:"author"`
		Text      string  `json:"text"`
		LikeCount int64   `json:"like_count"`
		Timestamp float64 `json:"timestamp"`
	} `json:"comments"`
}

// progressJSON mirrors one --progress-template line.
type progressJSON struct {
	DownloadedBytes *float64 `json:"downloaded_bytes"`
	TotalBytes      *float64 `json:"total_bytes"`
	PercentStr      *string  `json:"percent"`
	Status          *string  `json:"status"`
}
