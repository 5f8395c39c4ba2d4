package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/do"
)

var chunkSize = 8 * 1024

// Fetcher downloads files over plain HTTP with a streaming body.
type Fetcher struct {
	client *http.Client
}

func New(di *do.Injector) (*Fetcher, error) {
	return &Fetcher{
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// File fetches url into destDir under baseName plus an extension inferred
// from the response content type. Returns the final file path.
func (f *Fetcher) File(ctx context.Context, url, destDir, baseName string, onChunk func(downloaded, total int64)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download failed with status: %s", resp.Status)
	}

	ext := extensionFor(resp.Header.Get("Content-Type"))
	outPath := filepath.Join(destDir, baseName+ext)

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("could not create file: %w", err)
	}
	defer out.Close()

	var downloaded int64
	buf := make([]byte, chunkSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return "", fmt.Errorf("could not write file: %w", writeErr)
			}

			downloaded += int64(n)
			if onChunk != nil {
				onChunk(downloaded, resp.ContentLength)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("could not read response body: %w", readErr)
		}
	}

	return outPath, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "png"):
		return ".png"
	default:
		return ".jpg"
	}
}
