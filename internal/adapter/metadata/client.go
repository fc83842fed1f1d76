// Package metadata fetches observatory metadata from the INTERMAGNET
// metadata service.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

const userAgent = "geomag-metadata-service"

// Config locates the two resources under a base URL.
type Config struct {
	BaseURL           string
	ObservatoriesPath string
	DefinitivesPath   string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client issues GET requests for the metadata resources. Requests are paced
// by a token bucket and bounded by the HTTP client timeout; failed requests
// are not retried.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a metadata client. A non-positive rate disables pacing.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// FetchObservatories retrieves the observatories resource.
func (c *Client) FetchObservatories(ctx context.Context) (domain.ObservatoriesPayload, error) {
	var payload domain.ObservatoriesPayload
	err := c.fetch(ctx, domain.ResourceObservatories, &payload)
	return payload, err
}

// FetchDefinitives retrieves the definitive data catalogue.
func (c *Client) FetchDefinitives(ctx context.Context) (domain.DefinitivePayload, error) {
	var payload domain.DefinitivePayload
	err := c.fetch(ctx, domain.ResourceDefinitives, &payload)
	return payload, err
}

// URL returns the absolute URL of a resource.
func (c *Client) URL(r domain.Resource) string {
	path := c.cfg.ObservatoriesPath
	if r == domain.ResourceDefinitives {
		path = c.cfg.DefinitivesPath
	}
	return joinURL(c.cfg.BaseURL, path)
}

func (c *Client) fetch(ctx context.Context, resource domain.Resource, out any) error {
	u := c.URL(resource)
	fail := func(status int, err error) error {
		return &domain.FetchError{Resource: resource, URL: u, StatusCode: status, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(0, fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("fetching metadata", "resource", resource, "url", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
