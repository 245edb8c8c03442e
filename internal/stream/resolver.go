// Package stream resolves playable embed URLs through the embed-redirector service.
package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/mediabrowser/internal/core"
	"github.com/vadimtrunov/mediabrowser/internal/httpclient"
)

const (
	defaultBaseURL = "https://getsuperembed.link/"

	// urlPrefix marks a response body as a playable URL rather than an error message.
	urlPrefix = "https://"

	// FetchFailedMessage is the result error when the redirector cannot be reached.
	FetchFailedMessage = "Failed to fetch stream"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxBodyBytes = 64 << 10
)

// playerSettings are the fixed presentation parameters sent on every request.
var playerSettings = map[string]string{
	"player_font":                "Poppins",
	"player_bg_color":            "000000",
	"player_font_color":          "ffffff",
	"player_primary_color":       "34cfeb",
	"player_secondary_color":     "6900e0",
	"player_loader":              "1",
	"preferred_server":           "0",
	"player_sources_toggle_type": "2",
}

// Resolver queries the embed-redirector.
type Resolver struct {
	baseURL string
	http    *httpclient.Client
	logger  *slog.Logger
}

var _ core.StreamResolver = (*Resolver)(nil)

// New creates a Resolver. An empty baseURL selects the public redirector.
func New(baseURL string, cfg httpclient.Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg.UserAgent = browserUserAgent
	return &Resolver{
		baseURL: baseURL,
		http:    httpclient.New(cfg, logger),
		logger:  logger,
	}
}

// Resolve asks the redirector for a playable URL. A body starting with
// "https://" is the URL; any other body is returned verbatim as the error.
// Transport failures yield FetchFailedMessage together with a non-nil error.
func (r *Resolver) Resolve(ctx context.Context, req core.StreamRequest) (core.StreamResult, error) {
	body, err := r.fetch(ctx, req)
	if err != nil {
		r.logger.Warn("stream resolution failed",
			slog.String("video_id", req.VideoID),
			slog.String("error", err.Error()),
		)
		return core.StreamResult{Error: FetchFailedMessage}, err
	}
	return Classify(body), nil
}

// Classify interprets a raw redirector response.
func Classify(body string) core.StreamResult {
	if strings.HasPrefix(body, urlPrefix) {
		return core.StreamResult{URL: body}
	}
	return core.StreamResult{Error: body}
}

func (r *Resolver) fetch(ctx context.Context, req core.StreamRequest) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	u.RawQuery = queryFor(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read stream response: %w", err)
	}
	return string(body), nil
}

func queryFor(req core.StreamRequest) url.Values {
	external := req.ExternalID
	if external == "" {
		external = "0"
	}
	q := url.Values{
		"video_id": {req.VideoID},
		"tmdb":     {external},
		"season":   {strconv.Itoa(req.Season)},
		"episode":  {strconv.Itoa(req.Episode)},
	}
	for k, v := range playerSettings {
		q.Set(k, v)
	}
	return q
}
