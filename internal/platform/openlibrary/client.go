package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookfinder/internal/metrics"
)

const DefaultBaseURL = "https://openlibrary.org"

// DefaultBurst lets one detail request issue its work lookup and every author
// fetch at once without queueing on the limiter.
const DefaultBurst = 6

// Endpoint labels used for metrics and logs.
const (
	EndpointSearch = "search"
	EndpointWork   = "work"
	EndpointAuthor = "author"
)

type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	MaxRetries int
	CacheSize  int
	CacheTTL   time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	cache      *expirable.LRU[string, []byte]
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		logger:     zap.NewNop(),
	}
	if cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the catalog root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchRequest selects search.json parameters. Query maps to "q"; Title to
// the dedicated "title" parameter.
type SearchRequest struct {
	Query string
	Title string
	Page  int
	Limit int
}

func (r SearchRequest) values() url.Values {
	v := url.Values{}
	if r.Query != "" {
		v.Set("q", r.Query)
	}
	if r.Title != "" {
		v.Set("title", r.Title)
	}
	if r.Page > 0 {
		v.Set("page", strconv.Itoa(r.Page))
	}
	if r.Limit > 0 {
		v.Set("limit", strconv.Itoa(r.Limit))
	}
	return v
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	u := c.baseURL + "/search.json?" + req.values().Encode()

	body, cached := c.cachedSearch(u)
	if !cached {
		var err error
		body, err = c.get(ctx, EndpointSearch, u)
		if err != nil {
			return nil, err
		}
	}

	var res SearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		c.metrics.IncUpstreamError(EndpointSearch, "decode")
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if c.cache != nil && !cached {
		c.cache.Add(u, body)
	}
	return &res, nil
}

func (c *Client) cachedSearch(u string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok := c.cache.Get(u)
	if ok {
		c.metrics.IncSearchCacheHit()
	}
	return body, ok
}

func (c *Client) GetWork(ctx context.Context, workID string) (*Work, error) {
	// workID is usually "/works/OL..." or just "OL..."
	id := strings.TrimPrefix(strings.TrimPrefix(workID, "/"), "works/")
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(id))

	body, err := c.get(ctx, EndpointWork, u)
	if err != nil {
		return nil, err
	}
	var res Work
	if err := json.Unmarshal(body, &res); err != nil {
		c.metrics.IncUpstreamError(EndpointWork, "decode")
		return nil, fmt.Errorf("decode work %s: %w", id, err)
	}
	return &res, nil
}

func (c *Client) GetAuthor(ctx context.Context, authorKey string) (*Author, error) {
	// authorKey is usually "/authors/OL..." or just "OL..."
	key := strings.TrimPrefix(strings.TrimPrefix(authorKey, "/"), "authors/")
	u := fmt.Sprintf("%s/authors/%s.json", c.baseURL, url.PathEscape(key))

	body, err := c.get(ctx, EndpointAuthor, u)
	if err != nil {
		return nil, err
	}
	var res Author
	if err := json.Unmarshal(body, &res); err != nil {
		c.metrics.IncUpstreamError(EndpointAuthor, "decode")
		return nil, fmt.Errorf("decode author %s: %w", key, err)
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			c.logger.Debug("retrying catalog request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", i),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.do(ctx, endpoint, u)
		if err == nil {
			return body, nil
		}
		c.metrics.IncUpstreamError(endpoint, ErrorType(err))
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}
	if c.maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream(endpoint, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", endpoint, u, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s %s: %w", endpoint, u, ErrRateLimited)
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", endpoint, err)
	}
	return body, nil
}
