package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vidgrab/app/client/ytdlp"
	"vidgrab/app/service/jobs"
	"vidgrab/app/service/journal"
	"vidgrab/app/service/video"
	"vidgrab/pkg/config"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

// VideoService is the slice of the video service the API needs.
type VideoService interface {
	FetchMetadata(ctx context.Context, url string) (*ytdlp.Metadata, error)
	CurrentSession() *video.Session
	DownloadThumbnail(ctx context.Context, url, destDir, tier string, onProgress func(percent float64, indeterminate bool)) (string, error)
	DownloadMedia(ctx context.Context, req ytdlp.DownloadRequest, onProgress func(ytdlp.Progress)) (string, error)
	GenerateQR(target string) (string, error)
}

type Server struct {
	cfg      *config.Config
	video    VideoService
	runner   *jobs.Runner
	journal  *journal.Journal
	validate *validator.Validate

	app *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:      do.MustInvoke[*config.Config](di),
		video:    do.MustInvoke[*video.Service](di),
		runner:   do.MustInvoke[*jobs.Runner](di),
		journal:  do.MustInvoke[*journal.Journal](di),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "vidgrab",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Post("/validate", s.handleValidate)
	api.Post("/metadata", s.handleMetadata)
	api.Get("/session", s.handleSession)
	api.Post("/thumbnail", s.handleThumbnail)
	api.Post("/media", s.handleMedia)
	api.Post("/qrcode", s.handleQRCode)
	api.Get("/jobs/:id", s.handleJob)
	api.Get("/log", s.handleLog)
}

func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("Starting API server", slog.String("addr", addr))

	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}
