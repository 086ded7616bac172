// Package provider talks to the supported hosting providers' APIs.
// Every request goes through the response cache so unchanged resources are revalidated
// with a conditional request instead of being fetched again.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/cache"
	"github.com/repotrack/repotrack/internal/domain"
)

// maxBodySize is the largest response body accepted from a provider.
const maxBodySize = 10 << 20

// Dispatcher issues cached, conditional GET requests to providers.
// NewDispatcher should be used to create instances of Dispatcher.
type Dispatcher struct {
	cache     *cache.Cache
	client    *http.Client
	userAgent string
	providers map[domain.Provider]Config
	logger    hclog.Logger
}

// NewDispatcher creates a Dispatcher backed by the given response cache.
func NewDispatcher(logger hclog.Logger, c *cache.Cache, opts ...Option) (*Dispatcher, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		cache:     c,
		client:    options.client,
		userAgent: options.userAgent,
		providers: options.providers,
		logger:    logger.Named("provider"),
	}, nil
}

// URL returns the fully-qualified request URL for an endpoint of a provider.
func (d *Dispatcher) URL(p domain.Provider, endpoint string) (string, error) {
	s, err := strategyFor(p)
	if err != nil {
		return "", err
	}

	base := d.providers[p].BaseURL
	if base == "" {
		base = s.defaultBaseURL
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/"), nil
}

// Get fetches an endpoint of a provider and returns its JSON body.
// A nil body with no error means the provider confirmed the resource does not exist.
// Failures attributable to the provider are returned as *Error.
func (d *Dispatcher) Get(ctx context.Context, p domain.Provider, endpoint string) (json.RawMessage, error) {
	s, err := strategyFor(p)
	if err != nil {
		return nil, err
	}

	url, err := d.URL(p, endpoint)
	if err != nil {
		return nil, err
	}

	cached, err := d.cache.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for '%s': %w", url, err)
	}

	if cached != nil && cached.ETag != nil {
		req.Header.Set("If-None-Match", *cached.ETag)
	}
	if cfg := d.providers[p]; cfg.HasCredentials() {
		req.SetBasicAuth(cfg.Username, cfg.Token)
	}
	if s.accept != "" {
		req.Header.Set("Accept", s.accept)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.logger.Warn("Provider request failed", "provider", p, "url", url, "error", err)
		return nil, unknownError(p, 0, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	d.logger.Debug("Provider responded", "provider", p, "url", url, "status", resp.StatusCode)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := readBody(resp.Body)
		if err != nil {
			return nil, unknownError(p, resp.StatusCode, err)
		}
		if !json.Valid(body) {
			return nil, unknownError(p, resp.StatusCode, fmt.Errorf("invalid JSON body from '%s'", url))
		}

		if _, err := d.cache.Update(ctx, url, body, etagOf(resp)); err != nil {
			return nil, err
		}

		return body, nil

	case resp.StatusCode == http.StatusNotModified:
		if cached == nil {
			return nil, unknownError(p, resp.StatusCode, fmt.Errorf("not modified without a cached response for '%s'", url))
		}
		if cached.Absent() {
			return nil, nil
		}

		return json.RawMessage(cached.Body), nil

	case resp.StatusCode == http.StatusNotFound:
		if _, err := d.cache.Update(ctx, url, nil, nil); err != nil {
			return nil, err
		}

		return nil, nil

	default:
		perr := classify(p, s, resp)
		d.logger.Warn("Provider unavailable", "provider", p, "url", url, "status", resp.StatusCode, "cause", perr.Cause)

		return nil, perr
	}
}

// classify maps an error status to the provider error returned to callers.
func classify(p domain.Provider, s strategy, resp *http.Response) *Error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return badCredentials(p, resp.StatusCode)
	case http.StatusForbidden:
		if resp.Header.Get(s.rateLimitHeader) == "0" {
			return rateLimited(p, resp.StatusCode)
		}
		return tooManyAuthAttempts(p, resp.StatusCode)
	case http.StatusTooManyRequests:
		return rateLimited(p, resp.StatusCode)
	default:
		return unknownError(p, resp.StatusCode, nil)
	}
}

func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBodySize)
	}

	return body, nil
}

func etagOf(resp *http.Response) *string {
	etag := resp.Header.Get("ETag")
	if etag == "" {
		return nil
	}

	return &etag
}
