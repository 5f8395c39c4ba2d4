package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"
	"vidgrab/app/client/fetch"
	"vidgrab/app/client/ytdlp"
	"vidgrab/app/service/api"
	"vidgrab/app/service/jobs"
	"vidgrab/app/service/journal"
	"vidgrab/app/service/video"
	"vidgrab/pkg/config"
	sentry2 "vidgrab/pkg/sentry"
	"vidgrab/pkg/tlog"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	di := do.New()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = tlog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	if err = sentry2.Init(cfg); err != nil {
		slog.Error("Sentry initialization failed", slog.Any("error", err))
	}
	defer sentry.Flush(time.Second)
	defer sentry.RecoverWithContext(appCtx)

	do.Provide(di, ytdlp.New)
	do.Provide(di, fetch.New)
	do.Provide(di, journal.New)
	do.Provide(di, jobs.New)
	do.Provide(di, video.New)
	do.Provide(di, api.New)

	server := do.MustInvoke[*api.Server](di)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down server...")

		if err := server.Shutdown(); err != nil {
			slog.Error("Server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}()

	if err = server.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}

	log.Info("Waiting for services to finish...")
	_ = di.Shutdown()
}
