package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"vidgrab/pkg/config"

	"github.com/samber/do"
)

const unknownValue = "Unknown"

var progressTemplate = `download:{"downloaded_bytes":%(progress.downloaded_bytes)j,` +
	`"total_bytes":%(progress.total_bytes)j,` +
	`"percent":%(progress._percent_str)j,` +
	`"status":%(progress.status)j}`

// Client drives the yt-dlp binary for metadata extraction and media download.
type Client struct {
	binPath string
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{binPath: cfg.Downloader.YtDlpPath}, nil
}

// ExtractInfo runs yt-dlp in metadata-only mode and decodes the info dump
// into a Metadata record with defaults for every missing field.
func (c *Client) ExtractInfo(ctx context.Context, url string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, c.binPath,
		"-J",
		"--no-playlist",
		"--no-warnings",
		"--write-comments",
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %s: %w", stderrTail(&stderr), err)
	}

	var info infoJSON
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("could not decode info dump: %w", err)
	}

	return info.toMetadata(url), nil
}

func (i *infoJSON) toMetadata(requestURL string) *Metadata {
	meta := &Metadata{
		ID:          i.ID,
		Title:       i.Title,
		Uploader:    i.Uploader,
		ViewCount:   i.ViewCount,
		LikeCount:   i.LikeCount,
		UploadDate:  i.UploadDate,
		Duration:    int64(i.Duration),
		Description: i.Description,
		SourceURL:   i.WebpageURL,
		Thumbnails:  make([]Thumbnail, 0, len(i.Thumbnails)),
		Comments:    make([]Comment, 0, len(i.Comments)),
	}

	if meta.Title == "" {
		meta.Title = unknownValue
	}
	if meta.Uploader == "" {
		meta.Uploader = unknownValue
	}
	if meta.UploadDate == "" {
		meta.UploadDate = unknownValue
	}
	if meta.ViewCount < 0 {
		meta.ViewCount = 0
	}
	if meta.LikeCount < 0 {
		meta.LikeCount = 0
	}
	if meta.SourceURL == "" {
		meta.SourceURL = requestURL
	}

	for _, t := range i.Thumbnails {
		meta.Thumbnails = append(meta.Thumbnails, Thumbnail{
			Width:  t.Width,
			Height: t.Height,
			ID:     t.ID,
			URL:    t.URL,
		})
	}

	for _, cm := range i.Comments {
		meta.Comments = append(meta.Comments, Comment{
			Author:    cm.Author,
			Text:      cm.Text,
			LikeCount: cm.LikeCount,
			Timestamp: int64(cm.Timestamp),
		})
	}

	return meta
}

// Download runs yt-dlp in download mode and streams progress events into
// onProgress. Returns the path reported by yt-dlp after all moves and
// post-processing, or the destination directory if none was reported.
func (c *Client) Download(ctx context.Context, req DownloadRequest, onProgress func(Progress)) (string, error) {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress",
		"--progress-template", progressTemplate,
		"--print", "after_move:filepath",
		"-o", filepath.Join(req.Dir, "%(title)s.%(ext)s"),
		"-f", formatSelector(req.Quality, req.MediaType),
	}
	args = append(args, postProcessArgs(req.MediaType)...)
	args = append(args, req.URL)

	cmd := exec.CommandContext(ctx, c.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("could not create stdout pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return "", fmt.Errorf("could not start yt-dlp: %w", err)
	}

	var finalPath string

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if payload, ok := strings.CutPrefix(line, "download:"); ok {
			if p, ok := parseProgressLine(payload); ok && onProgress != nil {
				onProgress(p)
			}
			continue
		}

		// Any other stdout line is the after_move filepath print.
		finalPath = line
	}

	if err = cmd.Wait(); err != nil {
		return "", fmt.Errorf("download failed: %s: %w", stderrTail(&stderr), err)
	}

	if finalPath == "" {
		slog.Warn("yt-dlp did not report a final path", slog.String("url", req.URL))
		finalPath = req.Dir
	}

	return finalPath, nil
}

// formatSelector maps quality x media type onto a yt-dlp format string.
// The audio branch always requests best audio, even for a numeric quality.
func formatSelector(quality string, mediaType MediaType) string {
	if mediaType == MediaAudio {
		return "bestaudio/best"
	}

	switch quality {
	case "best":
		return "best[ext=mp4]/best"
	case "worst":
		return "worst[ext=mp4]/worst"
	}

	if height, err := strconv.Atoi(quality); err == nil && height > 0 {
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
	}

	return "best[ext=mp4]/best"
}

func postProcessArgs(mediaType MediaType) []string {
	if mediaType == MediaAudio {
		return []string{"-x", "--audio-format", "mp3", "--audio-quality", "192K"}
	}

	return []string{"--merge-output-format", "mp4"}
}

// parseProgressLine decodes one progress-template payload. Byte counts take
// priority over the textual percentage; with neither, the event is
// indeterminate.
func parseProgressLine(payload string) (Progress, bool) {
	var raw progressJSON
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Progress{}, false
	}

	p := Progress{Status: "downloading"}
	if raw.Status != nil && *raw.Status != "" {
		p.Status = *raw.Status
	}

	switch {
	case raw.TotalBytes != nil && *raw.TotalBytes > 0 && raw.DownloadedBytes != nil:
		p.Percent = *raw.DownloadedBytes / *raw.TotalBytes * 100
	case raw.PercentStr != nil:
		str := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(*raw.PercentStr), "%"))
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			p.Percent = v
		} else {
			p.Indeterminate = true
		}
	default:
		p.Indeterminate = true
	}

	if p.Percent < 0 {
		p.Percent = 0
	}
	if p.Percent > 100 {
		p.Percent = 100
	}

	return p, true
}

func stderrTail(buf *bytes.Buffer) string {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return "no stderr output"
	}

	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}

	return strings.Join(lines, "; ")
}
