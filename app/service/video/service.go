package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"vidgrab/app/client/fetch"
	"vidgrab/app/client/ytdlp"
	"vidgrab/pkg/config"
	"vidgrab/pkg/yturl"

	"github.com/samber/do"
	"github.com/skip2/go-qrcode"
)

var qrImageSize = 512

var (
	ErrInvalidURL    = errors.New("not a recognizable YouTube URL")
	ErrNoSession     = errors.New("no video information fetched yet")
	ErrNoThumbnails  = errors.New("no thumbnails found for this video")
	ErrSelectionMiss = errors.New("no thumbnail matches the requested quality")
)

// Extractor is the metadata/download side of the external extraction tool.
type Extractor interface {
	ExtractInfo(ctx context.Context, url string) (*ytdlp.Metadata, error)
	Download(ctx context.Context, req ytdlp.DownloadRequest, onProgress func(ytdlp.Progress)) (string, error)
}

// ImageFetcher streams a single file to disk.
type ImageFetcher interface {
	File(ctx context.Context, url, destDir, baseName string, onChunk func(downloaded, total int64)) (string, error)
}

// Session holds the result of the last successful metadata fetch. It is
// built in exactly one place and replaced wholesale by the next fetch.
type Session struct {
	Meta      *ytdlp.Metadata
	FetchedAt time.Time
}

// Service implements the fetch / thumbnail / media / QR operations on top of
// the extraction client.
type Service struct {
	cfg       *config.Config
	extractor Extractor
	fetcher   ImageFetcher

	m       sync.RWMutex
	session *Session
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		extractor: do.MustInvoke[*ytdlp.Client](di),
		fetcher:   do.MustInvoke[*fetch.Fetcher](di),
	}, nil
}

// FetchMetadata extracts video information and installs it as the current
// session.
func (s *Service) FetchMetadata(ctx context.Context, url string) (*ytdlp.Metadata, error) {
	if !yturl.Validate(url) {
		return nil, ErrInvalidURL
	}

	meta, err := s.extractor.ExtractInfo(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not fetch video information: %w", err)
	}

	s.m.Lock()
	s.session = &Session{Meta: meta, FetchedAt: time.Now()}
	s.m.Unlock()

	slog.InfoContext(ctx, "Metadata fetched",
		slog.String("video_id", meta.ID),
		slog.String("title", meta.Title),
	)

	return meta, nil
}

// CurrentSession returns the last successful fetch, or nil.
func (s *Service) CurrentSession() *Session {
	s.m.RLock()
	defer s.m.RUnlock()

	return s.session
}

// DownloadThumbnail re-extracts metadata for url, picks one candidate for
// the requested quality tier and streams it into destDir as
// <title>_thumbnail_<tier>.<ext>.
func (s *Service) DownloadThumbnail(ctx context.Context, url, destDir, tier string, onProgress func(percent float64, indeterminate bool)) (string, error) {
	if onProgress != nil {
		onProgress(0, true)
	}

	// Full extraction on purpose: thumbnail candidate URLs expire, the
	// cached session may be stale.
	meta, err := s.extractor.ExtractInfo(ctx, url)
	if err != nil {
		return "", fmt.Errorf("could not fetch video information: %w", err)
	}

	if len(meta.Thumbnails) == 0 {
		return "", ErrNoThumbnails
	}

	thumbURL, ok := SelectThumbnail(meta.Thumbnails, tier)
	if !ok {
		return "", ErrSelectionMiss
	}

	baseName := fmt.Sprintf("%s_thumbnail_%s", SanitizeTitle(meta.Title), tier)

	path, err := s.fetcher.File(ctx, thumbURL, destDir, baseName, func(downloaded, total int64) {
		if onProgress == nil {
			return
		}
		if total > 0 {
			onProgress(float64(downloaded)/float64(total)*100, false)
		} else {
			onProgress(0, true)
		}
	})
	if err != nil {
		return "", fmt.Errorf("could not download thumbnail: %w", err)
	}

	return path, nil
}

// DownloadMedia downloads the video or extracted audio into req.Dir.
func (s *Service) DownloadMedia(ctx context.Context, req ytdlp.DownloadRequest, onProgress func(ytdlp.Progress)) (string, error) {
	path, err := s.extractor.Download(ctx, req, onProgress)
	if err != nil {
		return "", err
	}

	return path, nil
}

// GenerateQR encodes the current session's canonical URL into a scannable
// image. target may be a directory (a title-derived filename is appended)
// or a full file path; empty means the configured download directory.
func (s *Service) GenerateQR(target string) (string, error) {
	session := s.CurrentSession()
	if session == nil {
		return "", ErrNoSession
	}

	path := target
	if path == "" {
		path = s.cfg.Downloader.DownloadDir
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, SanitizeTitle(session.Meta.Title)+"_qrcode.png")
	} else if !strings.HasSuffix(strings.ToLower(path), ".png") {
		path += ".png"
	}

	if err := qrcode.WriteFile(session.Meta.SourceURL, qrcode.Medium, qrImageSize, path); err != nil {
		return "", fmt.Errorf("could not write QR code image: %w", err)
	}

	return path, nil
}
