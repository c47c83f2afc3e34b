package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nsrpc/nsrpc/internal/domain"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxCatalogBytes    = 8 << 20
)

// RemoteProvider reads a catalog from a local file when present and
// otherwise downloads it over HTTP.
type RemoteProvider struct {
	file   string
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewRemoteProvider creates a provider. An empty file skips the local lookup.
func NewRemoteProvider(file, url string, timeout time.Duration, logger *slog.Logger) *RemoteProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &RemoteProvider{
		file:   file,
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchCatalog implements domain.CatalogProvider
func (p *RemoteProvider) FetchCatalog(ctx context.Context) ([]domain.Title, error) {
	// Local file first (much faster, and lets users curate their list)
	if p.file != "" {
		data, err := os.ReadFile(p.file)
		if err == nil {
			p.logger.Debug("catalog read from file", "file", p.file)
			return Decode(data)
		}
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("failed to read catalog file", "file", p.file, "error", err)
		}
	}

	if p.url == "" {
		return nil, fmt.Errorf("%w: no catalog file or URL configured", domain.ErrUnavailable)
	}

	data, err := p.download(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("catalog downloaded", "url", p.url, "bytes", len(data))
	return Decode(data)
}

func (p *RemoteProvider) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status: %d", domain.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUnavailable, err)
	}
	return body, nil
}
