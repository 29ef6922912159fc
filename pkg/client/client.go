// Package client talks to the letters archive web application the way its
// pages do: form-encoded ajax posts answered with JSON objects holding
// pre-rendered HTML fragments.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rubiojr/letterpress/pkg/config"
	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/log"
	"github.com/rubiojr/letterpress/pkg/version"
)

var logger = log.ForService("client")

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

type Client struct {
	base       *url.URL
	http       *http.Client
	csrf       *CSRFTransport
	limiter    *rate.Limiter
	endpoints  config.Endpoints
	tokenFixed bool
}

type Option func(*Client)

// WithTimeout sets the overall timeout of every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit limits outgoing requests. A zero rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithEndpoints(e config.Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithTransport replaces the transport under the CSRF layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.csrf.Base = rt
	}
}

// WithCSRFToken pins the CSRF token. Tokens found in fetched pages are
// then ignored.
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		c.csrf.SetToken(token)
		c.tokenFixed = true
	}
}

// WithCookies seeds the cookie jar for the archive origin.
func WithCookies(cookies map[string]string) Option {
	return func(c *Client) {
		if len(cookies) == 0 || c.http.Jar == nil {
			return
		}
		var list []*http.Cookie
		for name, value := range cookies {
			list = append(list, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		c.http.Jar.SetCookies(c.base, list)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	csrf := NewCSRFTransport(http.DefaultTransport, base)
	c := &Client{
		base: base,
		csrf: csrf,
		http: &http.Client{
			Transport: csrf,
			Jar:       jar,
			Timeout:   config.DefaultTimeout,
		},
		endpoints: config.DefaultEndpoints(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from the loaded configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	all := []Option{
		WithTimeout(cfg.Timeout.Duration),
		WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		WithEndpoints(cfg.Endpoints),
		WithCSRFToken(cfg.CSRFToken),
		WithCookies(cfg.Cookies),
	}
	return New(cfg.BaseURL, append(all, opts...)...)
}

// CSRFToken returns the token currently attached to unsafe requests.
func (c *Client) CSRFToken() string {
	return c.csrf.Token()
}

// SetCSRFToken replaces the token unless one was pinned with WithCSRFToken.
func (c *Client) SetCSRFToken(token string) {
	if c.tokenFixed || token == "" {
		return
	}
	c.csrf.SetToken(token)
}

// ResolveURL turns a server supplied path (e.g. a redirect_url) into an
// absolute URL on the archive origin.
func (c *Client) ResolveURL(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}

// do sends req and returns the response body of a 2xx answer. The caller
// closes the body.
func (c *Client) do(req *http.Request) (io.ReadCloser, error) {
	if err := c.wait(req.Context()); err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	logger.Debugf("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp.Body, nil
}

func (c *Client) ajax(ctx context.Context, method, path string, values url.Values, out any) error {
	var (
		req *http.Request
		err error
	)
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, c.endpoint(path, values), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), strings.NewReader(values.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", formContentType)
		}
	}
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set(RequestedWith, XMLHTTPRequest)

	logger.Debugf("%s %s %s", method, path, values.Encode())

	body, err := c.do(req)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// FetchPage loads a server-rendered page and remembers the CSRF token found
// in its form.
func (c *Client) FetchPage(ctx context.Context, path string) (*dom.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	page, err := dom.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if token, ok := page.CSRFToken(); ok {
		c.SetCSRFToken(token)
	} else if c.CSRFToken() == "" {
		logger.Warnf("page %s has no %s field, posts will be rejected", path, CSRFFieldName)
	}
	return page, nil
}

// IsHTTPStatus reports whether err is an HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}
