package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/repotrack/repotrack/internal/cache"
	"github.com/repotrack/repotrack/internal/domain"
)

var _ cache.Backend = (*Store)(nil)

// Response implements cache.Backend.
func (s *Store) Response(ctx context.Context, url string) (*domain.CachedResponse, error) {
	var (
		body      []byte
		etag      sql.NullString
		createdAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT body, etag, created_at FROM cached_responses WHERE url = ?
	`, url).Scan(&body, &etag, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	resp := &domain.CachedResponse{
		URL:       url,
		Body:      body,
		CreatedAt: created,
	}
	if etag.Valid {
		resp.ETag = &etag.String
	}

	return resp, nil
}

// StoreResponse implements cache.Backend.
// The row for resp.URL is replaced in full, so a body is never paired with another response's validator.
func (s *Store) StoreResponse(ctx context.Context, resp domain.CachedResponse) error {
	var etag sql.NullString
	if resp.ETag != nil {
		etag = sql.NullString{String: *resp.ETag, Valid: true}
	}

	// A nil []byte binds as NULL, an empty non-nil body must stay distinguishable from absent.
	var body any
	if resp.Body != nil {
		body = resp.Body
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cached_responses (url, body, etag, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			body = excluded.body,
			etag = excluded.etag,
			created_at = excluded.created_at
	`, resp.URL, body, etag, formatTime(resp.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}

	return nil
}
