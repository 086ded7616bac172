package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/errors"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// fakeManager records the arguments of the last call and returns canned results.
type fakeManager struct {
	collections []domain.Collection
	collection  *domain.Collection
	report      reconcile.Report
	repository  *domain.Repository
	err         error

	gotID           string
	gotName         string
	gotOwner        string
	gotPassword     string
	gotProvider     domain.Provider
	gotRepositoryID string
	gotCredential   *string
}

func (f *fakeManager) Create(_ context.Context, name string, password string) (*domain.Collection, error) {
	f.gotName, f.gotPassword = name, password
	return f.collection, f.err
}

func (f *fakeManager) List(context.Context) ([]domain.Collection, error) {
	return f.collections, f.err
}

func (f *fakeManager) Get(_ context.Context, id string) (*domain.Collection, error) {
	f.gotID = id
	return f.collection, f.err
}

func (f *fakeManager) GetRefreshed(_ context.Context, id string) (*domain.Collection, reconcile.Report, error) {
	f.gotID = id
	return f.collection, f.report, f.err
}

func (f *fakeManager) AddRepository(
	_ context.Context,
	id string,
	name string,
	owner string,
	p domain.Provider,
	credential *string,
) (*domain.Repository, error) {
	f.gotID, f.gotName, f.gotOwner, f.gotProvider, f.gotCredential = id, name, owner, p, credential
	return f.repository, f.err
}

func (f *fakeManager) RemoveRepository(_ context.Context, id string, repositoryID string, credential *string) error {
	f.gotID, f.gotRepositoryID, f.gotCredential = id, repositoryID, credential
	return f.err
}

func (f *fakeManager) Delete(_ context.Context, id string, credential *string) error {
	f.gotID, f.gotCredential = id, credential
	return f.err
}

func newTestAPI(t *testing.T, manager *fakeManager) humatest.TestAPI {
	t.Helper()

	_, testAPI := humatest.New(t, huma.DefaultConfig("repotrack", APIVersion))
	prefix, err := RegisterRoutes(testAPI, hclog.NewNullLogger(), manager)
	require.NoError(t, err)
	require.Equal(t, "/api/v1", prefix)

	return testAPI
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

var created = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestRegisterRoutes_Validation(t *testing.T) {
	t.Parallel()

	_, testAPI := humatest.New(t, huma.DefaultConfig("repotrack", APIVersion))

	_, err := RegisterRoutes(nil, hclog.NewNullLogger(), &fakeManager{})
	require.EqualError(t, err, "router cannot be nil")

	_, err = RegisterRoutes(testAPI, nil, &fakeManager{})
	require.EqualError(t, err, "logger cannot be nil")

	_, err = RegisterRoutes(testAPI, hclog.NewNullLogger(), nil)
	require.EqualError(t, err, "collection manager cannot be nil")
}

func TestListCollections(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{collections: []domain.Collection{
		{ID: "c1", Name: "first", CreatedAt: created},
		{ID: "c2", Name: "second", Protected: true, PasswordHash: []byte("hash"), CreatedAt: created},
	}}

	resp := newTestAPI(t, manager).Get("/api/v1/collections")
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[[]CollectionSummary](t, resp.Body.Bytes())
	require.Equal(t, []CollectionSummary{
		{ID: "c1", Name: "first", CreatedAt: created},
		{ID: "c2", Name: "second", Protected: true, CreatedAt: created},
	}, got)
	require.NotContains(t, resp.Body.String(), "hash")
}

func TestListCollections_Empty(t *testing.T) {
	t.Parallel()

	resp := newTestAPI(t, &fakeManager{}).Get("/api/v1/collections")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}

func TestCreateCollection(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{collection: &domain.Collection{ID: "c1", Name: "mine", Protected: true, CreatedAt: created}}

	resp := newTestAPI(t, manager).Post("/api/v1/collections", map[string]any{"name": "mine", "password": "secret"})
	require.Equal(t, http.StatusCreated, resp.Code)

	got := decode[CollectionSummary](t, resp.Body.Bytes())
	require.Equal(t, CollectionSummary{ID: "c1", Name: "mine", Protected: true, CreatedAt: created}, got)
	require.Equal(t, "mine", manager.gotName)
	require.Equal(t, "secret", manager.gotPassword)
}

func TestCreateCollection_BadRequest(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{err: fmt.Errorf("%w: collection name is required", errors.ErrBadRequest)}

	resp := newTestAPI(t, manager).Post("/api/v1/collections", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "collection name is required")
}

func TestGetCollection_FlagsStaleRepositories(t *testing.T) {
	t.Parallel()

	commit := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	manager := &fakeManager{
		collection: &domain.Collection{
			ID:        "c1",
			Name:      "mine",
			CreatedAt: created,
			Repositories: []domain.Repository{
				{ID: "r1", Name: "hello", Owner: "octo", Provider: domain.ProviderGitHub, LastCommitAt: &commit},
				{ID: "r2", Name: "world", Owner: "group", Provider: domain.ProviderGitLab},
			},
		},
		report: reconcile.Report{
			Updated: []string{"r1"},
			Failed:  map[string]error{"r2": errors.ErrProviderUnavailable},
		},
	}

	resp := newTestAPI(t, manager).Get("/api/v1/collections/c1")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "c1", manager.gotID)

	got := decode[Collection](t, resp.Body.Bytes())
	require.Equal(t, Collection{
		CollectionSummary: CollectionSummary{ID: "c1", Name: "mine", CreatedAt: created},
		Repositories: []Repository{
			{ID: "r1", Name: "hello", Owner: "octo", Provider: "github", LastCommitAt: &commit},
			{ID: "r2", Name: "world", Owner: "group", Provider: "gitlab", Stale: true},
		},
	}, got)
}

func TestGetCollection_NotFound(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{err: fmt.Errorf("%w: nope", errors.ErrCollectionNotFound)}

	resp := newTestAPI(t, manager).Get("/api/v1/collections/nope")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddRepository(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{repository: &domain.Repository{
		ID:       "r1",
		Name:     "hello",
		Owner:    "octo",
		Provider: domain.ProviderGitHub,
	}}

	resp := newTestAPI(t, manager).Post(
		"/api/v1/collections/c1/repositories",
		HeaderCollectionPassword+": secret",
		map[string]any{"name": "hello", "owner": "octo", "provider": " GitHub "},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[Repository](t, resp.Body.Bytes())
	require.Equal(t, Repository{ID: "r1", Name: "hello", Owner: "octo", Provider: "github"}, got)

	require.Equal(t, "c1", manager.gotID)
	require.Equal(t, "hello", manager.gotName)
	require.Equal(t, "octo", manager.gotOwner)
	require.Equal(t, domain.ProviderGitHub, manager.gotProvider)
	require.NotNil(t, manager.gotCredential)
	require.Equal(t, "secret", *manager.gotCredential)
}

func TestAddRepository_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "wrong password", err: errors.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "missing upstream", err: errors.ErrRepositoryNotFound, wantStatus: http.StatusNotFound},
		{name: "provider down", err: providerFailure{cause: "GitLab is unreachable."}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			manager := &fakeManager{err: tc.err}
			resp := newTestAPI(t, manager).Post(
				"/api/v1/collections/c1/repositories",
				map[string]any{"name": "hello", "owner": "octo", "provider": "gitlab"},
			)
			require.Equal(t, tc.wantStatus, resp.Code)
			require.Nil(t, manager.gotCredential)
		})
	}
}

func TestRemoveRepository(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{}

	resp := newTestAPI(t, manager).Delete(
		"/api/v1/collections/c1/repositories/r1",
		HeaderCollectionPassword+": secret",
	)
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Empty(t, resp.Body.String())
	require.Equal(t, "c1", manager.gotID)
	require.Equal(t, "r1", manager.gotRepositoryID)
	require.Equal(t, "secret", *manager.gotCredential)
}

func TestDeleteCollection(t *testing.T) {
	t.Parallel()

	manager := &fakeManager{}
	resp := newTestAPI(t, manager).Delete("/api/v1/collections/c1")
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "c1", manager.gotID)
	require.Nil(t, manager.gotCredential)

	manager = &fakeManager{err: errors.ErrUnauthorized}
	resp = newTestAPI(t, manager).Delete("/api/v1/collections/c1", HeaderCollectionPassword+": wrong")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
