package contracts

import (
	"context"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// CollectionManager provides the collection operations exposed to API clients.
//
// Mutating operations take an optional credential which must match the password of a protected collection.
// Existence is checked before the credential, and a rejected credential leaves no side effects.
type CollectionManager interface {
	// Create creates a collection, protected when password is non-empty.
	Create(ctx context.Context, name string, password string) (*domain.Collection, error)

	// List returns every collection, without repositories.
	List(ctx context.Context) ([]domain.Collection, error)

	// Get returns a collection with its tracked repositories as last stored.
	Get(ctx context.Context, id string) (*domain.Collection, error)

	// GetRefreshed refreshes every tracked repository before returning the collection.
	// The report lists repositories whose refresh failed.
	GetRefreshed(ctx context.Context, id string) (*domain.Collection, reconcile.Report, error)

	// AddRepository confirms a repository upstream and tracks it in the collection.
	AddRepository(
		ctx context.Context,
		id string,
		name string,
		owner string,
		provider domain.Provider,
		credential *string,
	) (*domain.Repository, error)

	// RemoveRepository stops tracking a repository in the collection.
	RemoveRepository(ctx context.Context, id string, repositoryID string, credential *string) error

	// Delete removes the collection.
	Delete(ctx context.Context, id string, credential *string) error
}
