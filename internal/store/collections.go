package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/repotrack/repotrack/internal/domain"
)

// CreateCollection stores a new collection, assigning its ID and creation time.
func (s *Store) CreateCollection(
	ctx context.Context,
	name string,
	passwordHash []byte,
) (*domain.Collection, error) {
	c := &domain.Collection{
		ID:           uuid.NewString(),
		Name:         name,
		Protected:    len(passwordHash) > 0,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	var hash any
	if c.Protected {
		hash = passwordHash
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, protected, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Protected, hash, formatTime(c.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return c, nil
}

// Collection gets a collection by ID, without its tracked repositories.
// Returns nil if not found.
func (s *Store) Collection(ctx context.Context, id string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, protected, password_hash, created_at FROM collections WHERE id = ?
	`, id)

	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Collections lists all collections, oldest first, without their tracked repositories.
func (s *Store) Collections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, protected, password_hash, created_at FROM collections
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	return collections, nil
}

// DeleteCollection removes a collection along with its tracking rows.
// Repositories are left in place. Returns false if the collection did not exist.
func (s *Store) DeleteCollection(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tracked_repositories WHERE collection_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tracking rows: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted rows: %w", err)
		}
		deleted = n > 0

		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// Track adds a repository to a collection.
// Tracking an already tracked repository is a no-op and returns false.
func (s *Store) Track(ctx context.Context, collectionID string, repositoryID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_repositories (collection_id, repository_id)
		VALUES (?, ?)
		ON CONFLICT(collection_id, repository_id) DO NOTHING
	`, collectionID, repositoryID)
	if err != nil {
		return false, fmt.Errorf("failed to track repository: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted rows: %w", err)
	}

	return n > 0, nil
}

// Untrack removes a repository from a collection.
// Returns false if the repository was not tracked by the collection.
func (s *Store) Untrack(ctx context.Context, collectionID string, repositoryID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM tracked_repositories WHERE collection_id = ? AND repository_id = ?
	`, collectionID, repositoryID)
	if err != nil {
		return false, fmt.Errorf("failed to untrack repository: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}

	return n > 0, nil
}

// TrackedRepositories lists the repositories tracked by a collection ordered by provider, owner and name.
func (s *Store) TrackedRepositories(ctx context.Context, collectionID string) ([]domain.Repository, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.owner, r.provider, r.last_commit_at, r.last_release_at, r.created_at
		FROM repositories r
		JOIN tracked_repositories t ON t.repository_id = r.id
		WHERE t.collection_id = ?
		ORDER BY r.provider, r.owner, r.name
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked repositories: %w", err)
	}
	defer rows.Close()

	return scanRepositories(rows)
}

// TrackedRepositoriesAll lists the repositories tracked by at least one collection.
// Repositories left behind by deleted collections or removed tracking rows are excluded.
func (s *Store) TrackedRepositoriesAll(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.name, r.owner, r.provider, r.last_commit_at, r.last_release_at, r.created_at
		FROM repositories r
		JOIN tracked_repositories t ON t.repository_id = r.id
		ORDER BY r.provider, r.owner, r.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked repositories: %w", err)
	}
	defer rows.Close()

	return scanRepositories(rows)
}

func scanCollection(row rowScanner) (*domain.Collection, error) {
	var (
		c         domain.Collection
		hash      []byte
		createdAt string
	)

	err := row.Scan(&c.ID, &c.Name, &c.Protected, &hash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}

	if len(hash) > 0 {
		c.PasswordHash = hash
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &c, nil
}
