package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime"
	"net"
	"net/http"
	"time"
)

// Logo fetch defaults
const (
	DefaultLogoTimeout  = 5 * time.Second
	DefaultLogoMaxBytes = 2 << 20
)

// LogoStatus is the outcome of a logo fetch
type LogoStatus string

const (
	LogoNone    LogoStatus = "none"
	LogoLoaded  LogoStatus = "loaded"
	LogoSkipped LogoStatus = "skipped"
)

// Logo is a fetched and decoded-enough image
type Logo struct {
	Data      []byte
	ImageType string // PNG, JPG or GIF
	Width     int    // pixels
	Height    int    // pixels
}

// LogoOutcome reports whether the logo will be drawn and, if not, why
type LogoOutcome struct {
	Status LogoStatus
	Reason string
	Logo   *Logo
}

// LogoSource retrieves a logo image by URL. Failures are reported in the
// outcome, never as errors.
type LogoSource interface {
	Fetch(ctx context.Context, url string) LogoOutcome
}

// LogoFetcherConfig configures the HTTP logo fetcher
type LogoFetcherConfig struct {
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
}

// LogoFetcher downloads logos over HTTP with a hard timeout and size cap
type LogoFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewLogoFetcher creates a logo fetcher
func NewLogoFetcher(cfg LogoFetcherConfig) *LogoFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLogoTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultLogoMaxBytes
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &LogoFetcher{client: client, timeout: cfg.Timeout, maxBytes: cfg.MaxBytes}
}

var imageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
	"image/gif":  "GIF",
}

var decoderTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
	"gif":  "GIF",
}

func skippedLogo(format string, args ...any) LogoOutcome {
	return LogoOutcome{Status: LogoSkipped, Reason: fmt.Sprintf(format, args...)}
}

// Fetch downloads and checks the logo at url
func (f *LogoFetcher) Fetch(ctx context.Context, url string) LogoOutcome {
	if url == "" {
		return LogoOutcome{Status: LogoNone}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return skippedLogo("invalid logo url: %v", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return skippedLogo("logo fetch timed out after %s", f.timeout)
		}
		return skippedLogo("logo fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return skippedLogo("logo fetch returned status %d", resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if _, ok := imageTypes[mediaType]; !ok {
		return skippedLogo("unsupported logo content type %q", mediaType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return skippedLogo("failed to read logo: %v", err)
	}
	if int64(len(data)) > f.maxBytes {
		return skippedLogo("logo exceeds %d bytes", f.maxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return skippedLogo("logo is not a decodable image: %v", err)
	}
	imageType, ok := decoderTypes[format]
	if !ok || cfg.Width == 0 || cfg.Height == 0 {
		return skippedLogo("unsupported logo format %q", format)
	}

	return LogoOutcome{
		Status: LogoLoaded,
		Logo:   &Logo{Data: data, ImageType: imageType, Width: cfg.Width, Height: cfg.Height},
	}
}
