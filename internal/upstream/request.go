package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/guttosm/quotegate/internal/logger"
)

// ErrNotFound reports that the provider has no such ticker or dataset.
var ErrNotFound = errors.New("upstream: not found")

// APIError represents an error answered by the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream http %d: %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrNotFound) true for provider 404s.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody is the error envelope shared by the provider's endpoints.
type errorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (b *errorBody) asAPIError(status int) *APIError {
	if b.Code == "Not Found" {
		status = http.StatusNotFound
	}
	msg := b.Description
	if msg == "" {
		msg = b.Code
	}
	return &APIError{StatusCode: status, Message: msg}
}

// doRequest performs a GET against path and returns the decoded body bytes.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.crumb != "" {
		query.Set("crumb", c.crumb)
	}
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	logger.FromContext(ctx).Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("encoding", resp.Header.Get("Content-Encoding")).
		Dur("elapsed", time.Since(start)).
		Msg("upstream call")
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// statusError builds an APIError, preferring the provider's own description.
func statusError(status int, body []byte) *APIError {
	var envelope map[string]struct {
		Error *errorBody `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		for _, v := range envelope {
			if v.Error != nil {
				return v.Error.asAPIError(status)
			}
		}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

// readBody reads resp.Body, undoing the Content-Encoding the provider chose.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer func() { _ = fl.Close() }()
		r = fl
	case "br":
		r = brotli.NewReader(resp.Body)
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
	return io.ReadAll(r)
}

// get performs a GET request and unmarshals the JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// Ping checks that the provider host answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}
