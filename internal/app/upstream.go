package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/guttosm/quotegate/config"
	"github.com/guttosm/quotegate/internal/upstream"
)

// InitUpstream builds the market-data provider client from configuration.
//
// Behavior:
//   - Validates that UPSTREAM_BASE_URL is an absolute http(s) URL.
//   - Applies timeout, user agent, crumb/cookie and fan-out bound.
//
// It does not dial the provider; readiness is reported by /readyz.
func InitUpstream(cfg config.Config) (*upstream.Client, error) {
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q: expected http(s)://host", cfg.Upstream.BaseURL)
	}

	return upstream.NewClient(
		strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		upstream.WithHTTPClient(upstream.NewHTTPClient(cfg.Upstream.Timeout)),
		upstream.WithUserAgent(cfg.Upstream.UserAgent),
		upstream.WithCrumb(cfg.Upstream.Crumb, cfg.Upstream.Cookie),
		upstream.WithMaxParallel(cfg.Upstream.MaxParallel),
	), nil
}

// upstreamOpener is an indirection used by InitializeApp; overridden in tests.
var upstreamOpener = InitUpstream
