package domain

import "time"

// CachedResponse is the last known provider response for a fully-qualified request URL.
type CachedResponse struct {
	URL string

	// Body is the serialized JSON body. A nil Body on a stored row records that the
	// entity was confirmed absent upstream.
	Body []byte

	// ETag is the validator the provider returned with Body, if any.
	ETag *string

	CreatedAt time.Time
}

// Absent reports whether the response records a confirmed not-found entity.
func (c CachedResponse) Absent() bool {
	return c.Body == nil
}
