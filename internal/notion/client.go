package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"git.home.luguber.info/inful/notionsite/internal/config"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
	"git.home.luguber.info/inful/notionsite/internal/retry"
)

const (
	maxResponseBytes = 10 << 20
	userAgent        = "notionsite/1.0"
)

// Client talks to the Notion web API.
type Client struct {
	httpClient      *http.Client
	apiBaseURL      string
	authToken       string
	defaultAncestor string
	defaultLimit    int
	retry           retry.Policy
	limiter         *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }
func WithAuthToken(token string) Option     { return func(c *Client) { c.authToken = token } }
func WithDefaultAncestor(id string) Option  { return func(c *Client) { c.defaultAncestor = id } }
func WithDefaultLimit(n int) Option         { return func(c *Client) { c.defaultLimit = n } }
func WithRetryPolicy(p retry.Policy) Option { return func(c *Client) { c.retry = p } }
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithRateLimit caps requests per second with the given burst. rps <= 0
// removes the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewClient creates a client for apiBaseURL, e.g. https://www.notion.so/api/v3.
func NewClient(apiBaseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		defaultLimit: config.DefaultSearchLimit,
		retry:        retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromSite builds a client from the loaded site settings. Searches without
// an ancestor are scoped to the site's root page.
func FromSite(site *config.Site) *Client {
	return NewClient(site.Notion.APIBaseURL,
		WithTimeout(site.Notion.Timeout),
		WithAuthToken(site.Notion.AuthToken),
		WithDefaultAncestor(site.RootNotionPageID),
		WithDefaultLimit(site.Search.DefaultLimit),
		WithRetryPolicy(site.Notion.Retry),
		WithRateLimit(site.Notion.RateLimit.RequestsPerSecond, site.Notion.RateLimit.Burst),
	)
}

// Normalize applies this client's defaults to params.
func (c *Client) Normalize(params SearchParams) (SearchParams, error) {
	return params.Normalize(c.defaultAncestor, c.defaultLimit)
}

// Search runs a quick-find search and returns the upstream JSON unchanged.
// Transport failures, 429 and 5xx responses are retried per the client's
// retry policy.
func (c *Client) Search(ctx context.Context, params SearchParams) (json.RawMessage, error) {
	params, err := c.Normalize(params)
	if err != nil {
		return nil, err
	}
	body := newSearchRequest(params)

	var out json.RawMessage
	err = c.retry.Do(ctx, canRetry, func(attempt int) error {
		if attempt > 0 {
			slog.WarnContext(ctx, "Retrying Notion search", slog.Int("attempt", attempt), logfields.Query(params.Query))
		}
		if err := c.wait(ctx); err != nil {
			return err
		}
		req, err := c.newRequest(ctx, http.MethodPost, "search", body)
		if err != nil {
			return err
		}
		out, err = c.do(req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return derrors.NetworkError("Notion rate limit wait aborted").
			WithCause(err).
			WithRetry(derrors.RetryNever).
			Build()
	}
	return nil
}

func canRetry(err error) bool {
	classified, ok := derrors.AsClassified(err)
	return ok && classified.CanRetry()
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.apiBaseURL)
	if err != nil {
		return nil, derrors.ConfigError("failed to parse Notion API URL").
			WithCause(err).
			WithContext("api_url", c.apiBaseURL).
			Build()
	}
	u.Path = path.Join(strings.TrimSuffix(u.Path, "/"), endpoint)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, derrors.InternalError("failed to marshal request body").WithCause(err).Build()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, derrors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.authToken != "" {
		req.AddCookie(&http.Cookie{Name: "token_v2", Value: c.authToken})
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, derrors.NetworkError("failed to reach Notion").
			WithCause(err).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		// Read limited body for diagnostics
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		b := derrors.NetworkError(fmt.Sprintf("Notion API error: %s", resp.Status))
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			b = b.WithRetry(derrors.RetryNever)
		}
		return nil, b.
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", strings.ReplaceAll(string(limitedBody), "\n", " ")).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, derrors.NetworkError("failed to read Notion response").WithCause(err).Build()
	}
	if !json.Valid(body) {
		return nil, derrors.NetworkError("Notion returned invalid JSON").
			WithRetry(derrors.RetryNever).
			WithContext("url", req.URL.String()).
			Build()
	}
	return json.RawMessage(body), nil
}
