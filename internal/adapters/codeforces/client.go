// Package codeforces implements the submission source and problem catalog
// over the public Codeforces API.
package codeforces

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

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/pkg/logger"
	"github.com/okian/cfcoach/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL        = "https://codeforces.com/api"
	defaultTimeout        = 10 * time.Second
	defaultMaxSubmissions = 3000
	maxResponseBytes      = 64 << 20

	endpointUserInfo   = "user.info"
	endpointUserStatus = "user.status"
	endpointProblemset = "problemset.problems"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxSubmissions caps how many recent submissions are fetched.
func WithMaxSubmissions(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxSubmissions = n
		}
	}
}

// WithRequestRate paces outgoing requests; zero disables pacing.
func WithRequestRate(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client talks to the Codeforces API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	maxSubmissions int
	limiter        *rate.Limiter
	logger         logger.Logger
}

// NewClient creates a client with defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		http:           &http.Client{Timeout: defaultTimeout},
		maxSubmissions: defaultMaxSubmissions,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUser loads the profile and recent submissions of handle. Both calls
// run concurrently; either failing fails the whole fetch. Submissions that
// cannot be decoded are skipped.
func (c *Client) FetchUser(ctx context.Context, handle string) (model.UserData, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return model.UserData{}, ErrEmptyHandle
	}

	var (
		profile model.Profile
		subs    []model.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = c.userInfo(gctx, handle)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = c.userStatus(gctx, handle)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserData{}, err
	}
	return model.UserData{Profile: profile, Submissions: subs}, nil
}

func (c *Client) userInfo(ctx context.Context, handle string) (model.Profile, error) {
	q := url.Values{"handles": {handle}}
	var users []userDTO
	if err := c.call(ctx, endpointUserInfo, q, &users); err != nil {
		return model.Profile{}, err
	}
	if len(users) == 0 {
		return model.Profile{}, fmt.Errorf("%w: %s: no user %q", ErrUpstreamStatus, endpointUserInfo, handle)
	}
	return toProfile(users[0]), nil
}

func (c *Client) userStatus(ctx context.Context, handle string) ([]model.Submission, error) {
	q := url.Values{
		"handle": {handle},
		"from":   {"1"},
		"count":  {strconv.Itoa(c.maxSubmissions)},
	}
	var raw []json.RawMessage
	if err := c.call(ctx, endpointUserStatus, q, &raw); err != nil {
		return nil, err
	}

	subs := make([]model.Submission, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var dto submissionDTO
		if err := json.Unmarshal(r, &dto); err != nil {
			skipped++
			continue
		}
		subs = append(subs, toSubmission(dto))
	}
	if skipped > 0 {
		metrics.RecordMalformedSubmissions(skipped)
		c.logger.Debug(ctx, "skipped undecodable submissions",
			logger.String("handle", handle),
			logger.Int("skipped", skipped),
		)
	}
	return subs, nil
}

// Query returns rated problems tagged with topic whose rating lies in
// [minRating, maxRating], in catalog order.
func (c *Client) Query(ctx context.Context, topic string, minRating, maxRating int) ([]model.CatalogProblem, error) {
	q := url.Values{"tags": {topic}}
	var set problemsetDTO
	if err := c.call(ctx, endpointProblemset, q, &set); err != nil {
		return nil, err
	}

	out := make([]model.CatalogProblem, 0)
	for _, r := range set.Problems {
		var dto problemDTO
		if err := json.Unmarshal(r, &dto); err != nil {
			continue
		}
		p, ok := toCatalogProblem(dto)
		if !ok || p.Rating < minRating || p.Rating > maxRating {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// call performs GET {base}/{method}?{q} and decodes the envelope's result
// into out.
func (c *Client) call(ctx context.Context, method string, q url.Values, out any) (err error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: waiting for rate limiter: %w", method, err)
		}
	}

	start := time.Now()
	defer func() {
		metrics.RecordUpstreamRequest(method, float64(time.Since(start).Milliseconds()), err == nil)
	}()

	endpoint := c.baseURL + "/" + method + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: execute request: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}

	var env envelope
	if jerr := json.Unmarshal(body, &env); jerr != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s: %d", ErrHTTPStatus, method, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: %w", ErrDecode, method, jerr)
	}
	// The API reports bad handles as HTTP 400 with a FAILED envelope.
	if env.Status != statusOK {
		return fmt.Errorf("%w: %s: %s", ErrUpstreamStatus, method, env.Comment)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %s result: %w", ErrDecode, method, err)
	}
	return nil
}
