package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/files"
	"github.com/repotrack/repotrack/internal/perms"
)

const boltBucketResponses = "responses" // key: URL -> boltRecord JSON

var _ Backend = (*BoltBackend)(nil)

// BoltBackend stores cached responses in a bbolt file, one key per URL.
// NewBoltBackend should be used to create instances of BoltBackend.
type BoltBackend struct {
	db *bbolt.DB
}

// boltRecord is the stored representation of a cached response.
type boltRecord struct {
	Body      []byte    `json:"body,omitempty"`
	Absent    bool      `json:"absent"`
	ETag      *string   `json:"etag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewBoltBackend opens (creating if needed) the bbolt file at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	if err := files.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, perms.SecureFile, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file '%s': %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketResponses))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

// Response implements Backend.
func (b *BoltBackend) Response(_ context.Context, url string) (*domain.CachedResponse, error) {
	var resp *domain.CachedResponse

	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketResponses)).Get([]byte(url))
		if data == nil {
			return nil
		}

		var rec boltRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("corrupt cache record: %w", err)
		}

		resp = &domain.CachedResponse{
			URL:       url,
			ETag:      rec.ETag,
			CreatedAt: rec.CreatedAt,
		}
		if !rec.Absent {
			// Values returned by bbolt are only valid for the life of the transaction.
			resp.Body = append([]byte{}, rec.Body...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// StoreResponse implements Backend.
func (b *BoltBackend) StoreResponse(_ context.Context, resp domain.CachedResponse) error {
	data, err := json.Marshal(boltRecord{
		Body:      resp.Body,
		Absent:    resp.Absent(),
		ETag:      resp.ETag,
		CreatedAt: resp.CreatedAt,
	})
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketResponses)).Put([]byte(resp.URL), data)
	})
}

// Close closes the underlying bbolt file.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
