package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Telegram struct {
			Token  string `yaml:"token"`
			ChatID string `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"log"`

	Sentry struct {
		DSN              string  `yaml:"dsn"`
		Environment      string  `yaml:"environment"`
		TracesSampleRate float64 `yaml:"traces_sample_rate"`
	} `yaml:"sentry"`

	Downloader struct {
		YtDlpPath   string `yaml:"yt_dlp_path" validate:"required"`
		DownloadDir string `yaml:"download_dir" validate:"required"`
	} `yaml:"downloader"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("VIDGRAB_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var result Config
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Host == "" {
		result.Server.Host = "127.0.0.1"
	}
	if result.Server.Port == 0 {
		result.Server.Port = 8080
	}
	if result.Sentry.TracesSampleRate == 0 {
		result.Sentry.TracesSampleRate = 1.0
	}
	if result.Sentry.Environment == "" {
		result.Sentry.Environment = "production"
	}
	if result.Downloader.YtDlpPath == "" {
		result.Downloader.YtDlpPath = "yt-dlp"
	}
	if result.Downloader.DownloadDir == "" {
		home, _ := os.UserHomeDir()
		result.Downloader.DownloadDir = home
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
