// Package remoteicon provides the remote fallback icon provider: a curated
// catalog of well-known programs and a fetcher for their hosted icons.
package remoteicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/infrastructure/iconextract"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	// HTTP client timeout for icon fetch.
	defaultFetchTimeout = 5 * time.Second
	// maxPayloadSize caps icon downloads.
	maxPayloadSize = 1 << 20
	userAgent      = "iconscope/1.0"
)

// Fetcher downloads icon payloads over HTTP and validates them.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A zero timeout uses the default.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads iconURL. Transport failures and non-200 responses are
// FetchNetworkFailure; empty, oversized or non-image bodies are
// FetchMalformedPayload.
func (f *Fetcher) Fetch(ctx context.Context, iconURL string, svgSize int) (entity.IconImage, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", iconURL).Msg("fetching remote icon")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, http.NoBody)
	if err != nil {
		return entity.IconImage{}, entity.NewFetchError(entity.FetchNetworkFailure, iconURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return entity.IconImage{}, entity.NewFetchError(entity.FetchNetworkFailure, iconURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return entity.IconImage{}, entity.NewFetchError(entity.FetchNetworkFailure, iconURL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return entity.IconImage{}, entity.NewFetchError(entity.FetchNetworkFailure, iconURL, err)
	}

	img, err := decodePayload(data, svgSize)
	if err != nil {
		return entity.IconImage{}, entity.NewFetchError(entity.FetchMalformedPayload, iconURL, err)
	}
	img.Source = iconURL

	log.Debug().Str("url", iconURL).Int("bytes", len(data)).Str("format", string(img.Format)).Msg("remote icon fetched")
	return img, nil
}

func decodePayload(data []byte, svgSize int) (entity.IconImage, error) {
	switch {
	case len(data) == 0:
		return entity.IconImage{}, errors.New("empty body")
	case len(data) > maxPayloadSize:
		return entity.IconImage{}, fmt.Errorf("body larger than %d bytes", maxPayloadSize)
	}

	format, ok := iconextract.Sniff(data)
	if !ok {
		return entity.IconImage{}, errors.New("unrecognized image signature")
	}
	if format == entity.IconFormatSVG {
		return entity.IconImage{Data: data, Format: format, Size: svgSize}, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.IconImage{}, fmt.Errorf("decode %s header: %w", format, err)
	}
	return entity.IconImage{Data: data, Format: format, Size: max(cfg.Width, cfg.Height)}, nil
}
