// Package collection manages collections and the repositories they track,
// including the password gate protecting collection mutations.
package collection

import (
	"context"
	stdErrors "errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/crypto/bcrypt"

	"github.com/repotrack/repotrack/internal/contracts"
	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/errors"
	"github.com/repotrack/repotrack/internal/reconcile"
)

var _ contracts.CollectionManager = (*Service)(nil)

// MaxNameLength is the maximum number of characters in a collection name.
const MaxNameLength = 100

// Store persists collections and the repositories they track.
type Store interface {
	CreateCollection(ctx context.Context, name string, passwordHash []byte) (*domain.Collection, error)
	Collection(ctx context.Context, id string) (*domain.Collection, error)
	Collections(ctx context.Context) ([]domain.Collection, error)
	DeleteCollection(ctx context.Context, id string) (bool, error)
	Track(ctx context.Context, collectionID string, repositoryID string) (bool, error)
	Untrack(ctx context.Context, collectionID string, repositoryID string) (bool, error)
	TrackedRepositories(ctx context.Context, collectionID string) ([]domain.Repository, error)
}

// Reconciler confirms repositories upstream and refreshes tracked ones.
type Reconciler interface {
	Add(ctx context.Context, name string, owner string, p domain.Provider) (*domain.Repository, error)
	RefreshAll(ctx context.Context, repos []domain.Repository) reconcile.Report
}

// Service implements collection operations.
// NewService should be used to create instances of Service.
type Service struct {
	store      Store
	reconciler Reconciler
	hashCost   int
	logger     hclog.Logger
}

// NewService creates a collection Service.
func NewService(logger hclog.Logger, store Store, reconciler Reconciler, opts ...Option) (*Service, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if store == nil || reflect.ValueOf(store).IsNil() {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if reconciler == nil || reflect.ValueOf(reconciler).IsNil() {
		return nil, fmt.Errorf("reconciler cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:      store,
		reconciler: reconciler,
		hashCost:   options.hashCost,
		logger:     logger.Named("collection"),
	}, nil
}

// Create creates a collection. A non-empty password protects the collection.
func (s *Service) Create(ctx context.Context, name string, password string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", errors.ErrBadRequest)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: collection name exceeds %d characters", errors.ErrBadRequest, MaxNameLength)
	}

	var hash []byte
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			if stdErrors.Is(err, bcrypt.ErrPasswordTooLong) {
				return nil, fmt.Errorf("%w: %w", errors.ErrBadRequest, err)
			}
			return nil, fmt.Errorf("failed to hash collection password: %w", err)
		}
		hash = h
	}

	c, err := s.store.CreateCollection(ctx, name, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Collection created", "id", c.ID, "name", c.Name, "protected", c.Protected)

	return c, nil
}

// Get returns a collection with its tracked repositories as last stored, without contacting providers.
func (s *Service) Get(ctx context.Context, id string) (*domain.Collection, error) {
	c, err := s.collection(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Repositories, err = s.store.TrackedRepositories(ctx, c.ID); err != nil {
		return nil, err
	}

	return c, nil
}

// GetRefreshed refreshes every repository tracked by a collection and returns the collection
// with its repositories as they are once the refresh completed.
// Repositories that could not be refreshed are returned with their last known data and listed
// in the report's failures.
func (s *Service) GetRefreshed(ctx context.Context, id string) (*domain.Collection, reconcile.Report, error) {
	c, err := s.collection(ctx, id)
	if err != nil {
		return nil, reconcile.Report{}, err
	}

	tracked, err := s.store.TrackedRepositories(ctx, c.ID)
	if err != nil {
		return nil, reconcile.Report{}, err
	}

	report := s.reconciler.RefreshAll(ctx, tracked)

	s.logger.Debug(
		"Collection refreshed",
		"id", c.ID,
		"updated", len(report.Updated),
		"unchanged", len(report.Unchanged),
		"removed", len(report.Removed),
		"failed", len(report.Failed),
	)

	if c.Repositories, err = s.store.TrackedRepositories(ctx, c.ID); err != nil {
		return nil, reconcile.Report{}, err
	}

	return c, report, nil
}

// List returns every collection without repositories.
func (s *Service) List(ctx context.Context) ([]domain.Collection, error) {
	return s.store.Collections(ctx)
}

// AddRepository confirms a repository exists upstream and starts tracking it in a collection.
// Adding a repository the collection already tracks succeeds without creating anything.
func (s *Service) AddRepository(
	ctx context.Context,
	id string,
	name string,
	owner string,
	p domain.Provider,
	credential *string,
) (*domain.Repository, error) {
	c, err := s.authorized(ctx, id, credential)
	if err != nil {
		return nil, err
	}

	repo, err := s.reconciler.Add(ctx, name, owner, p)
	if err != nil {
		return nil, err
	}

	added, err := s.store.Track(ctx, c.ID, repo.ID)
	if err != nil {
		return nil, err
	}

	if added {
		s.logger.Info("Repository tracked", "collection", c.ID, "repository", repo.FullName(), "provider", repo.Provider)
	}

	return repo, nil
}

// RemoveRepository stops tracking a repository in a collection.
// The repository itself is kept, it may be tracked by other collections.
func (s *Service) RemoveRepository(ctx context.Context, id string, repositoryID string, credential *string) error {
	c, err := s.authorized(ctx, id, credential)
	if err != nil {
		return err
	}

	removed, err := s.store.Untrack(ctx, c.ID, repositoryID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: '%s' is not tracked by collection '%s'", errors.ErrRepositoryNotFound, repositoryID, c.ID)
	}

	s.logger.Info("Repository untracked", "collection", c.ID, "repository", repositoryID)

	return nil
}

// Delete deletes a collection. Repositories it tracked are kept.
func (s *Service) Delete(ctx context.Context, id string, credential *string) error {
	c, err := s.authorized(ctx, id, credential)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteCollection(ctx, c.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", errors.ErrCollectionNotFound, c.ID)
	}

	s.logger.Info("Collection deleted", "id", c.ID)

	return nil
}

func (s *Service) collection(ctx context.Context, id string) (*domain.Collection, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: collection id is required", errors.ErrBadRequest)
	}

	c, err := s.store.Collection(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrCollectionNotFound, id)
	}

	return c, nil
}

// authorized loads a collection and checks the credential against it.
func (s *Service) authorized(ctx context.Context, id string, credential *string) (*domain.Collection, error) {
	c, err := s.collection(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.Protected {
		return c, nil
	}

	if credential == nil || bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(*credential)) != nil {
		s.logger.Debug("Rejected collection credential", "id", c.ID)
		return nil, errors.ErrUnauthorized
	}

	return c, nil
}
