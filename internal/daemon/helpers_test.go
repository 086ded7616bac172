package daemon

import (
	"context"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// stubManager serves an empty set of collections.
type stubManager struct{}

func (stubManager) Create(context.Context, string, string) (*domain.Collection, error) {
	return &domain.Collection{ID: "c1"}, nil
}

func (stubManager) List(context.Context) ([]domain.Collection, error) { return nil, nil }

func (stubManager) Get(context.Context, string) (*domain.Collection, error) {
	return &domain.Collection{ID: "c1"}, nil
}

func (stubManager) GetRefreshed(context.Context, string) (*domain.Collection, reconcile.Report, error) {
	return &domain.Collection{ID: "c1"}, reconcile.Report{}, nil
}

func (stubManager) AddRepository(
	context.Context,
	string,
	string,
	string,
	domain.Provider,
	*string,
) (*domain.Repository, error) {
	return &domain.Repository{ID: "r1"}, nil
}

func (stubManager) RemoveRepository(context.Context, string, string, *string) error { return nil }

func (stubManager) Delete(context.Context, string, *string) error { return nil }
