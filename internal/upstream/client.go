// Package upstream is the market-data provider client (Yahoo Finance public API).
//
// It knows the provider's wire formats and nothing about HTTP status mapping or
// sanitization: it returns raw tables, raw price columns and typed errors.
package upstream

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxParallel = 8
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0"
)

// Client provides access to the provider's REST API.
type Client struct {
	baseURL     string
	userAgent   string
	crumb       string
	cookie      string
	maxParallel int
	httpClient  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new provider client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     baseURL,
		userAgent:   defaultUserAgent,
		maxParallel: defaultMaxParallel,
		httpClient:  NewHTTPClient(defaultTimeout),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewHTTPClient creates an *http.Client tuned for provider calls.
//
// http.DefaultClient has no timeout, so a dedicated client is always used.
// Compression is negotiated by the Client itself, so the transport must not
// add its own Accept-Encoding.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		DisableCompression:  true,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCrumb sets the session crumb and cookie some endpoints require.
func WithCrumb(crumb, cookie string) ClientOption {
	return func(c *Client) {
		c.crumb = crumb
		c.cookie = cookie
	}
}

// WithMaxParallel bounds concurrent calls made by PriceHistory.
func WithMaxParallel(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxParallel = n
		}
	}
}

// CloseIdleConnections releases pooled keep-alive connections. Used on shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
