package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/repotrack/repotrack/internal/domain"
)

const repositoryColumns = `id, name, owner, provider, last_commit_at, last_release_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// EnsureRepository returns the repository identified by name, owner and provider,
// creating it when it does not exist yet.
func (s *Store) EnsureRepository(
	ctx context.Context,
	name string,
	owner string,
	provider domain.Provider,
) (*domain.Repository, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repositories (id, name, owner, provider, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, owner, provider) DO NOTHING
	`, uuid.NewString(), name, owner, string(provider), formatTime(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	repo, err := s.FindRepository(ctx, name, owner, provider)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, fmt.Errorf("repository %s/%s on %s vanished after creation", owner, name, provider)
	}

	return repo, nil
}

// FindRepository looks a repository up by its identifying tuple.
// Returns nil if not found.
func (s *Store) FindRepository(
	ctx context.Context,
	name string,
	owner string,
	provider domain.Provider,
) (*domain.Repository, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+repositoryColumns+` FROM repositories
		WHERE name = ? AND owner = ? AND provider = ?
	`, name, owner, string(provider))

	return scanRepositoryRow(row)
}

// Repository gets a repository by ID.
// Returns nil if not found.
func (s *Store) Repository(ctx context.Context, id string) (*domain.Repository, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+repositoryColumns+` FROM repositories WHERE id = ?`, id)

	return scanRepositoryRow(row)
}

// Repositories lists every known repository ordered by provider, owner and name.
func (s *Store) Repositories(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+repositoryColumns+` FROM repositories
		ORDER BY provider, owner, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	return scanRepositories(rows)
}

// UpdateRepositoryActivity sets the observed commit and release dates for a repository.
// A nil value leaves the stored date untouched.
func (s *Store) UpdateRepositoryActivity(
	ctx context.Context,
	id string,
	lastCommitAt *time.Time,
	lastReleaseAt *time.Time,
) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE repositories SET
			last_commit_at = COALESCE(?, last_commit_at),
			last_release_at = COALESCE(?, last_release_at)
		WHERE id = ?
	`, nullTime(lastCommitAt), nullTime(lastReleaseAt), id)
	if err != nil {
		return fmt.Errorf("failed to update repository activity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository '%s' does not exist", id)
	}

	return nil
}

// DeleteRepository removes a repository and every tracking row that references it.
// Returns false if the repository did not exist.
func (s *Store) DeleteRepository(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tracked_repositories WHERE repository_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tracking rows: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM repositories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete repository: %w", err)
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

func scanRepositoryRow(row rowScanner) (*domain.Repository, error) {
	repo, err := scanRepository(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func scanRepositories(rows *sql.Rows) ([]domain.Repository, error) {
	var repos []domain.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		repos = append(repos, *repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repositories: %w", err)
	}

	return repos, nil
}

func scanRepository(row rowScanner) (*domain.Repository, error) {
	var (
		repo          domain.Repository
		provider      string
		lastCommitAt  sql.NullString
		lastReleaseAt sql.NullString
		createdAt     string
	)

	err := row.Scan(&repo.ID, &repo.Name, &repo.Owner, &provider, &lastCommitAt, &lastReleaseAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}

	repo.Provider = domain.Provider(provider)

	if repo.LastCommitAt, err = parseNullTime(lastCommitAt); err != nil {
		return nil, err
	}
	if repo.LastReleaseAt, err = parseNullTime(lastReleaseAt); err != nil {
		return nil, err
	}
	if repo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &repo, nil
}
