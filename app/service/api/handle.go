package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"vidgrab/app/client/ytdlp"
	"vidgrab/app/service/jobs"
	"vidgrab/pkg/yturl"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

var mediaQualityPattern = regexp.MustCompile(`^(best|worst|\d+)$`)

type urlRequest struct {
	URL string `json:"url"`
}

type thumbnailRequest struct {
	URL       string `json:"url"`
	Directory string `json:"directory"`
	Quality   string `json:"quality" validate:"omitempty,oneof=maxres high medium standard default"`
}

type mediaRequest struct {
	URL       string `json:"url"`
	Directory string `json:"directory"`
	Quality   string `json:"quality"`
	Type      string `json:"type" validate:"omitempty,oneof=video audio"`
}

type qrRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleValidate(c *fiber.Ctx) error {
	var req urlRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	return c.JSON(fiber.Map{
		"valid":    yturl.Validate(req.URL),
		"video_id": yturl.ExtractID(req.URL),
	})
}

func (s *Server) handleMetadata(c *fiber.Ctx) error {
	var req urlRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.URL == "" {
		return badRequest(c, "please enter a YouTube URL")
	}
	if !yturl.Validate(req.URL) {
		return badRequest(c, "please enter a valid YouTube URL")
	}

	url := req.URL
	snap, err := s.runner.Dispatch(jobs.KindMetadata, func(ctx context.Context, report func(jobs.Progress)) (string, error) {
		s.journal.Append("Metadata fetch started: %s", url)
		report(jobs.Progress{Indeterminate: true, Message: "Fetching video information..."})

		meta, err := s.video.FetchMetadata(ctx, url)
		if err != nil {
			s.journal.Append("Metadata fetch failed: %v", err)
			return "", err
		}

		s.journal.Append("Metadata fetched: %s", meta.Title)
		return meta.Title, nil
	})
	if errors.Is(err, jobs.ErrBusy) {
		return busy(c)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": snap.ID})
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	session := s.video.CurrentSession()
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no video information fetched yet"})
	}

	meta := session.Meta

	return c.JSON(fiber.Map{
		"video_id":    meta.ID,
		"title":       meta.Title,
		"uploader":    meta.Uploader,
		"view_count":  meta.ViewCount,
		"like_count":  meta.LikeCount,
		"upload_date": meta.UploadDate,
		"duration":    meta.Duration,
		"description": meta.Description,
		"source_url":  meta.SourceURL,
		"fetched_at":  session.FetchedAt,
		"thumbnails": lo.Map(meta.Thumbnails, func(t ytdlp.Thumbnail, _ int) fiber.Map {
			return fiber.Map{
				"id":     t.ID,
				"url":    t.URL,
				"width":  t.Width,
				"height": t.Height,
			}
		}),
		"comments": lo.Map(meta.Comments, func(cm ytdlp.Comment, _ int) fiber.Map {
			return fiber.Map{
				"author":     cm.Author,
				"text":       cm.Text,
				"like_count": cm.LikeCount,
				"timestamp":  cm.Timestamp,
			}
		}),
	})
}

func (s *Server) handleThumbnail(c *fiber.Ctx) error {
	var req thumbnailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Quality == "" {
		req.Quality = "maxres"
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "unknown thumbnail quality")
	}

	destDir, err := s.checkDownloadPreconditions(req.URL, req.Directory)
	if err != nil {
		return badRequest(c, err.Error())
	}

	url, tier := req.URL, req.Quality
	snap, err := s.runner.Dispatch(jobs.KindThumbnail, func(ctx context.Context, report func(jobs.Progress)) (string, error) {
		s.journal.Append("Thumbnail download started: %s (%s)", url, tier)
		report(jobs.Progress{Indeterminate: true, Message: fmt.Sprintf("Downloading thumbnail (%s)...", tier)})

		path, err := s.video.DownloadThumbnail(ctx, url, destDir, tier, func(percent float64, indeterminate bool) {
			report(jobs.Progress{Percent: percent, Indeterminate: indeterminate})
		})
		if err != nil {
			s.journal.Append("Thumbnail download failed: %v", err)
			return "", err
		}

		s.journal.Append("Thumbnail saved: %s", path)
		return path, nil
	})
	if errors.Is(err, jobs.ErrBusy) {
		return busy(c)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": snap.ID})
}

func (s *Server) handleMedia(c *fiber.Ctx) error {
	var req mediaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Quality == "" {
		req.Quality = "best"
	}
	if req.Type == "" {
		req.Type = "video"
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "unknown media type")
	}
	if !mediaQualityPattern.MatchString(req.Quality) {
		return badRequest(c, "quality must be best, worst or a numeric height")
	}

	destDir, err := s.checkDownloadPreconditions(req.URL, req.Directory)
	if err != nil {
		return badRequest(c, err.Error())
	}

	dlReq := ytdlp.DownloadRequest{
		URL:       req.URL,
		Dir:       destDir,
		Quality:   req.Quality,
		MediaType: ytdlp.MediaType(req.Type),
	}

	snap, err := s.runner.Dispatch(jobs.KindMedia, func(ctx context.Context, report func(jobs.Progress)) (string, error) {
		s.journal.Append("Media download started: %s (%s %s)", dlReq.URL, dlReq.MediaType, dlReq.Quality)
		report(jobs.Progress{Indeterminate: true, Message: fmt.Sprintf("Downloading %s (%s)...", dlReq.MediaType, dlReq.Quality)})

		path, err := s.video.DownloadMedia(ctx, dlReq, func(p ytdlp.Progress) {
			report(jobs.Progress{Percent: p.Percent, Indeterminate: p.Indeterminate, Message: p.Status})
		})
		if err != nil {
			s.journal.Append("Media download failed: %v", err)
			return "", err
		}

		s.journal.Append("Media saved: %s", path)
		return path, nil
	})
	if errors.Is(err, jobs.ErrBusy) {
		return busy(c)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": snap.ID})
}

func (s *Server) handleQRCode(c *fiber.Ctx) error {
	var req qrRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	path, err := s.video.GenerateQR(req.Path)
	if err != nil {
		s.journal.Append("QR code generation failed: %v", err)
		return badRequest(c, err.Error())
	}

	s.journal.Append("QR code saved: %s", path)

	return c.JSON(fiber.Map{"path": path})
}

func (s *Server) handleJob(c *fiber.Ctx) error {
	snap, ok := s.runner.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown job"})
	}

	return c.JSON(snap)
}

func (s *Server) handleLog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"entries": s.journal.Entries()})
}

// checkDownloadPreconditions enforces the rules shared by both download
// kinds before any worker is spawned.
func (s *Server) checkDownloadPreconditions(url, directory string) (string, error) {
	if url == "" {
		return "", errors.New("please enter a YouTube URL")
	}
	if !yturl.Validate(url) {
		return "", errors.New("please enter a valid YouTube URL")
	}
	if s.video.CurrentSession() == nil {
		return "", errors.New("fetch video information first")
	}

	destDir := directory
	if destDir == "" {
		destDir = s.cfg.Downloader.DownloadDir
	}

	if info, err := os.Stat(destDir); err != nil || !info.IsDir() {
		return "", errors.New("destination directory does not exist")
	}

	return destDir, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func busy(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "this action is already in progress"})
}
