// Package trefle is the HTTP client for the Trefle botanical API
// (https://trefle.io). All requests share one rate limiter.
package trefle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
	"github.com/greenbook/greenbook-api/internal/pkg/metrics"
)

const (
	DefaultPlantsURL     = "https://trefle.io/api/v1/plants"
	defaultTimeout       = 15 * time.Second
	defaultRateLimit     = 2
	defaultMaxImageBytes = 10 << 20
	maxPageBytes         = 4 << 20
	imageUserAgent       = "Mozilla/5.0"
)

// Config holds the client settings.
type Config struct {
	PlantsURL     string
	Token         string
	Timeout       time.Duration
	RateLimit     float64 // requests per second
	MaxImageBytes int64
}

// Client implements ports.CatalogClient.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.PlantsURL == "" {
		cfg.PlantsURL = DefaultPlantsURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		log:     log.With().Str("component", "trefle").Logger(),
	}
}

// FetchPage returns the plant entries of the given listing page.
func (c *Client) FetchPage(ctx context.Context, page int) ([]domain.CatalogEntry, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	resp, err := c.get(ctx, c.plantsURL(q), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var body plantsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode page %d: %v", domain.ErrUpstream, page, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(body.Data))
	for _, p := range body.Data {
		entries = append(entries, p.toEntry())
	}
	c.log.Debug().Int("page", page).Int("entries", len(entries)).Msg("catalogue page fetched")
	return entries, nil
}

// FetchImage downloads rawURL. Non-200 statuses are reported in the result
// rather than as errors; bodies larger than MaxImageBytes are rejected.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (*ports.FetchedImage, error) {
	resp, err := c.get(ctx, rawURL, "image/jpeg")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img := &ports.FetchedImage{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return img, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > c.cfg.MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", c.cfg.MaxImageBytes)
	}
	img.Data = data
	return img, nil
}

// CheckToken requests the first listing page to verify the API token.
func (c *Client) CheckToken(ctx context.Context) error {
	resp, err := c.get(ctx, c.plantsURL(url.Values{}), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
	return nil
}

func (c *Client) plantsURL(q url.Values) string {
	q.Set("token", c.cfg.Token)
	return c.cfg.PlantsURL + "?" + q.Encode()
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", imageUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		var uerr *url.Error
		if errors.As(err, &uerr) {
			// url.Error embeds the full URL, which carries the API token.
			return nil, fmt.Errorf("request %s %s: %w", uerr.Op, redactToken(uerr.URL), uerr.Err)
		}
		return nil, fmt.Errorf("request: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func (c *Client) statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.log.Warn().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("catalogue api returned an error")
	return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
}

func redactToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
