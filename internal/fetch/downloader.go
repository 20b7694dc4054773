// Package fetch downloads uploaded documents from the file-transport service over
// a pooled HTTP client.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ndadi/PersonaRAG/internal/config"
)

type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type HTTPDownloader struct {
	client *http.Client
}

func NewDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		},
	}
}

// Download fetches the document bytes, attempted exactly once. The body read is
// capped so an absurd upload cannot exhaust memory.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading download body: %w", err)
	}
	return data, nil
}
