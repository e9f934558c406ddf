// Package apiclient is the HTTP client for The Hive API. Every request runs
// through a fixed pipeline that attaches the session token and turns 401
// responses from protected endpoints into a session-expired signal.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/me/hive/pkg/model"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for The Hive API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	tokens    TokenStore
	allow     Allowlist
	timeout   time.Duration
	transport http.RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport replaces the base transport under the pipeline.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithAllowlist replaces the unauthenticated-endpoint allowlist.
func WithAllowlist(a Allowlist) Option {
	return func(c *Client) {
		c.allow = a
	}
}

// New creates a client whose pipeline reads and clears tokens and raises
// signal on session-invalidating 401s. The pipeline is installed once here.
func New(baseURL string, tokens TokenStore, signal Signaler, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Logger:  logger.With("component", "apiclient"),
		tokens:  tokens,
		allow:   DefaultAllowlist,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	c.HTTPClient = &http.Client{
		Timeout:   c.timeout,
		Transport: NewPipeline(base, tokens, signal, c.allow, c.Logger),
	}
	return c
}

// do performs a request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response %s %s: %w", method, path, err)
	}
	return nil
}

// doRaw performs a request and returns the response body. Non-2xx
// responses become *APIError; transport failures become *NetworkError.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		// Auth bodies carry passwords.
		if !c.allow.Match(path) {
			c.Logger.Debug("HTTP request body", "body", string(data))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: u, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, method, path, respBody)
	}
	return respBody, nil
}

// getPage fetches one page of a list endpoint whose items sit under itemsKey.
func getPage[T any](ctx context.Context, c *Client, path, itemsKey string, query url.Values) (*model.Page[T], error) {
	data, err := c.doRaw(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	page, err := model.DecodePage[T](data, itemsKey)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", itemsKey, err)
	}
	return page, nil
}

// pageQuery encodes clamped pagination parameters.
func pageQuery(opts model.PageOptions) url.Values {
	opts.Clamp()
	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("limit", strconv.Itoa(opts.Limit))
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setFloat(q url.Values, key string, v *float64) {
	if v != nil {
		q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func segment(id string) string {
	return url.PathEscape(id)
}
