package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/domain"
)

// Backend persists cached responses keyed by their fully-qualified request URL.
type Backend interface {
	// Response returns the stored response for url, or nil (with no error) if there isn't one.
	Response(ctx context.Context, url string) (*domain.CachedResponse, error)

	// StoreResponse replaces the whole stored row for resp.URL with resp in a single atomic write.
	StoreResponse(ctx context.Context, resp domain.CachedResponse) error
}

// Cache is the response cache consulted by provider requests.
// There is no expiry: entries are only ever replaced when a provider returns a different validator.
// NewCache should be used to create instances of Cache.
type Cache struct {
	// backend stores the cached rows.
	backend Backend

	// now returns the time recorded against newly stored rows.
	now func() time.Time

	// logger is used for logging cache operations.
	logger hclog.Logger
}

// NewCache creates a new response cache on top of the given backend.
func NewCache(logger hclog.Logger, backend Backend, opts ...Option) (*Cache, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if backend == nil || reflect.ValueOf(backend).IsNil() {
		return nil, fmt.Errorf("cache backend cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Cache{
		backend: backend,
		now:     options.clock,
		logger:  logger.Named("cache"),
	}, nil
}

// Get returns the cached response for url, or nil if nothing has been cached for it.
func (c *Cache) Get(ctx context.Context, url string) (*domain.CachedResponse, error) {
	resp, err := c.backend.Response(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached response for '%s': %w", url, err)
	}

	return resp, nil
}

// Body returns the cached JSON body for url.
// It returns nil when there is no cached row or the row records an absent entity.
func (c *Cache) Body(ctx context.Context, url string) (json.RawMessage, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Absent() {
		return nil, nil
	}

	return json.RawMessage(resp.Body), nil
}

// DecodedBody decodes the cached JSON body for url into v.
// It returns false when there is no cached row, or the row has no body.
func (c *Cache) DecodedBody(ctx context.Context, url string, v any) (bool, error) {
	body, err := c.Body(ctx, url)
	if err != nil {
		return false, err
	}
	if body == nil {
		return false, nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		return false, fmt.Errorf("failed to decode cached response for '%s': %w", url, err)
	}

	return true, nil
}

// Update stores body and etag for url, replacing any existing row entirely,
// unless a row already exists with the same etag in which case nothing is written.
// A nil body records that the entity was confirmed absent upstream.
// Two missing etags count as the same validator, so for a provider that sends
// no ETag the first row written for url is kept: neither a new body nor a
// confirmed absence replaces it.
// It returns true when the row was written.
func (c *Cache) Update(ctx context.Context, url string, body []byte, etag *string) (bool, error) {
	existing, err := c.Get(ctx, url)
	if err != nil {
		return false, err
	}

	if existing != nil && sameETag(existing.ETag, etag) {
		c.logger.Trace("Cached response unchanged", "url", url)
		return false, nil
	}

	resp := domain.CachedResponse{
		URL:       url,
		Body:      bytes.Clone(body),
		ETag:      cloneString(etag),
		CreatedAt: c.now().UTC(),
	}
	if err := c.backend.StoreResponse(ctx, resp); err != nil {
		return false, fmt.Errorf("failed to store cached response for '%s': %w", url, err)
	}

	c.logger.Debug("Cached response stored", "url", url, "absent", resp.Absent(), "etag", derefString(etag))

	return true, nil
}

// sameETag reports whether two optional validators are equal, treating two nils as equal.
func sameETag(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
