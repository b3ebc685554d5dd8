package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// DefaultBasePath is where better-auth mounts its routes.
	DefaultBasePath = "/api/auth"

	// DefaultTimeout bounds a single call to the auth server.
	DefaultTimeout = 15 * time.Second

	// HeaderRequestID carries the request id upstream.
	HeaderRequestID = "X-Request-Id"

	maxResponseBytes = 8 << 20
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authapi_requests_total",
			Help: "Calls to the auth server, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authapi_request_duration_seconds",
			Help:    "Latency of calls to the auth server.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Client talks to a better-auth server.
type Client struct {
	baseURL string
	origin  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout sets the per call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithOrigin sets the Origin header sent on every call. better-auth checks it
// against its trusted origins for cookie authenticated requests.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = strings.TrimRight(origin, "/")
	}
}

// New returns a client for the auth server at authURL. basePath defaults to
// DefaultBasePath.
func New(authURL, basePath string, opts ...Option) (*Client, error) {
	authURL = strings.TrimSpace(authURL)
	if authURL == "" {
		return nil, ErrEmptyAuthURL
	}

	u, err := url.Parse(authURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid auth url %q", authURL)
	}

	if basePath == "" {
		basePath = DefaultBasePath
	}

	c := &Client{
		baseURL: strings.TrimRight(authURL, "/") + "/" + strings.Trim(basePath, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the root of the auth routes.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs one request and records its metrics. in and out may be nil.
func (c *Client) call(ctx context.Context, op, method, endpoint string, query url.Values, in, out any) (http.Header, error) {
	start := time.Now()

	header, err := c.do(ctx, method, endpoint, query, in, out)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	return header, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, in, out any) (http.Header, error) {
	var body io.Reader

	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}

		body = bytes.NewReader(buf)
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set(HeaderRequestID, requestID)

	if cookie := CookieFrom(ctx); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.Header, errors.Wrapf(err, "read %s", endpoint)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.Header, decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return resp.Header, nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return resp.Header, ErrEmptyResponse
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return resp.Header, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	return resp.Header, nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &Error{Status: status}

	// the body is best effort, a proxy may answer with html
	_ = json.Unmarshal(raw, apiErr)
	apiErr.Status = status

	return apiErr
}

// cookieHeader folds the Set-Cookie values of header into a Cookie header,
// skipping cookies that are being cleared.
func cookieHeader(header http.Header) string {
	resp := http.Response{Header: header}

	var pairs []string

	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}

		pairs = append(pairs, ck.Name+"="+ck.Value)
	}

	return strings.Join(pairs, "; ")
}
