package httpclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// DefaultUserAgent is sent when the caller does not set its own.
const DefaultUserAgent = "mediabrowser/1.0"

// Config holds timeout and identification settings for outbound calls.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		UserAgent: DefaultUserAgent,
	}
}

// Client wraps http.Client with logging and per-host metrics.
// Requests are issued exactly once; failed calls are never retried.
type Client struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

// New creates a new Client with a default http.Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client with a custom http.Client (e.g. a test transport).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
}

// Do executes an HTTP request once and records its outcome.
// The caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	host := req.URL.Host
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GetOrCreateHistogram(fmt.Sprintf(`upstream_request_duration_seconds{host=%q}`, host)).UpdateDuration(start)

	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`upstream_requests_total{host=%q,code="error"}`, host)).Inc()
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
		err = redact(err)
		c.logger.Debug("upstream request failed",
			slog.String("host", host),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`upstream_requests_total{host=%q,code="%d"}`, host, resp.StatusCode)).Inc()
	c.logger.Debug("upstream request",
		slog.String("host", host),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// redact strips credentials, query and fragment from the URL carried by a
// transport error. API keys travel as query parameters.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	clean := "<redacted>"
	if u, perr := url.Parse(uerr.URL); perr == nil {
		u.User = nil
		u.RawQuery = ""
		u.Fragment = ""
		clean = u.String()
	}
	return &url.Error{Op: uerr.Op, URL: clean, Err: uerr.Err}
}
