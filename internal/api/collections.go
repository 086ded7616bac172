package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/contracts"
	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// HeaderCollectionPassword is the request header carrying the password of a protected collection.
const HeaderCollectionPassword = "X-Collection-Password"

// DomainCollection is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainCollection domain.Collection

// DomainRepository is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainRepository domain.Repository

// CollectionSummary describes a collection without its repositories.
type CollectionSummary struct {
	ID        string    `doc:"Collection identifier"                            json:"id"`
	Name      string    `doc:"Collection name"                                  json:"name"`
	Protected bool      `doc:"Whether mutations require the collection password" json:"protected"`
	CreatedAt time.Time `doc:"Creation time"                                    json:"createdAt"`
}

// Collection describes a collection and the repositories it tracks.
type Collection struct {
	CollectionSummary
	Repositories []Repository `doc:"Tracked repositories" json:"repositories"`
}

// Repository describes a tracked repository.
type Repository struct {
	ID            string     `doc:"Repository identifier"                  json:"id"`
	Name          string     `doc:"Repository name"                        json:"name"`
	Owner         string     `doc:"Repository owner or namespace"          json:"owner"`
	Provider      string     `doc:"Hosting provider"                       json:"provider"`
	LastCommitAt  *time.Time `doc:"Date of the latest commit"              json:"lastCommitAt,omitempty"`
	LastReleaseAt *time.Time `doc:"Date of the latest release"             json:"lastReleaseAt,omitempty"`
	Stale         bool       `doc:"Set when refreshing the repository failed" json:"stale,omitempty"`
}

// CollectionsResponse is the response for GET /collections.
type CollectionsResponse struct {
	Body []CollectionSummary
}

// CollectionRequest identifies a collection.
type CollectionRequest struct {
	ID string `doc:"Collection identifier" path:"id"`
}

// CollectionResponse is the response for GET /collections/{id}.
type CollectionResponse struct {
	Body Collection
}

// CreateCollectionRequest is the request for POST /collections.
type CreateCollectionRequest struct {
	Body struct {
		Name     string `doc:"Collection name"                               example:"favourites" json:"name,omitempty"`
		Password string `doc:"Password protecting the collection from changes"                    json:"password,omitempty"`
	}
}

// CreateCollectionResponse is the response for POST /collections.
type CreateCollectionResponse struct {
	Body CollectionSummary
}

// AddRepositoryRequest is the request for POST /collections/{id}/repositories.
type AddRepositoryRequest struct {
	ID       string `doc:"Collection identifier"              path:"id"`
	Password string `doc:"Password of a protected collection" header:"X-Collection-Password"`
	Body     struct {
		Name     string `doc:"Repository name"               example:"go"     json:"name,omitempty"`
		Owner    string `doc:"Repository owner or namespace" example:"golang" json:"owner,omitempty"`
		Provider string `doc:"Hosting provider"              example:"github" json:"provider,omitempty"`
	}
}

// RepositoryResponse is the response for POST /collections/{id}/repositories.
type RepositoryResponse struct {
	Body Repository
}

// RemoveRepositoryRequest is the request for DELETE /collections/{id}/repositories/{repositoryId}.
type RemoveRepositoryRequest struct {
	ID           string `doc:"Collection identifier"              path:"id"`
	RepositoryID string `doc:"Repository identifier"              path:"repositoryId"`
	Password     string `doc:"Password of a protected collection" header:"X-Collection-Password"`
}

// DeleteCollectionRequest is the request for DELETE /collections/{id}.
type DeleteCollectionRequest struct {
	ID       string `doc:"Collection identifier"              path:"id"`
	Password string `doc:"Password of a protected collection" header:"X-Collection-Password"`
}

// ToAPISummary converts a domain collection to an API-safe summary, omitting the password hash.
func (d DomainCollection) ToAPISummary() CollectionSummary {
	return CollectionSummary{
		ID:        d.ID,
		Name:      d.Name,
		Protected: d.Protected,
		CreatedAt: d.CreatedAt,
	}
}

// ToAPIType converts a domain collection and its repositories, flagging those the report lists as failed.
func (d DomainCollection) ToAPIType(report reconcile.Report) Collection {
	repos := make([]Repository, 0, len(d.Repositories))
	for _, r := range d.Repositories {
		repo := DomainRepository(r).ToAPIType()
		repo.Stale = report.Stale(r.ID)
		repos = append(repos, repo)
	}

	return Collection{
		CollectionSummary: d.ToAPISummary(),
		Repositories:      repos,
	}
}

// ToAPIType converts a domain repository.
func (d DomainRepository) ToAPIType() Repository {
	return Repository{
		ID:            d.ID,
		Name:          d.Name,
		Owner:         d.Owner,
		Provider:      d.Provider.String(),
		LastCommitAt:  d.LastCommitAt,
		LastReleaseAt: d.LastReleaseAt,
	}
}

// RegisterCollectionRoutes sets up collection API endpoints.
func RegisterCollectionRoutes(
	routerAPI huma.API,
	logger hclog.Logger,
	manager contracts.CollectionManager,
	apiPathPrefix string,
) {
	collectionsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Collections"}

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID: "listCollections",
			Method:      http.MethodGet,
			Summary:     "List all collections",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*CollectionsResponse, error) {
			return handleListCollections(ctx, logger, manager)
		},
	)

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID:   "createCollection",
			Method:        http.MethodPost,
			Summary:       "Create a collection",
			Tags:          tags,
			DefaultStatus: http.StatusCreated,
		},
		func(ctx context.Context, input *CreateCollectionRequest) (*CreateCollectionResponse, error) {
			return handleCreateCollection(ctx, logger, manager, input.Body.Name, input.Body.Password)
		},
	)

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID: "getCollection",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Refresh and get a collection with its repositories",
			Tags:        tags,
		},
		func(ctx context.Context, input *CollectionRequest) (*CollectionResponse, error) {
			return handleGetCollection(ctx, logger, manager, input.ID)
		},
	)

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID:   "deleteCollection",
			Method:        http.MethodDelete,
			Path:          "/{id}",
			Summary:       "Delete a collection",
			Tags:          tags,
			DefaultStatus: http.StatusNoContent,
		},
		func(ctx context.Context, input *DeleteCollectionRequest) (*struct{}, error) {
			if err := manager.Delete(ctx, input.ID, credential(input.Password)); err != nil {
				return nil, MapError(logger, err)
			}
			return nil, nil
		},
	)

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID: "addRepository",
			Method:      http.MethodPost,
			Path:        "/{id}/repositories",
			Summary:     "Track a repository in a collection",
			Tags:        append(tags, "Repositories"),
		},
		func(ctx context.Context, input *AddRepositoryRequest) (*RepositoryResponse, error) {
			return handleAddRepository(ctx, logger, manager, input)
		},
	)

	huma.Register(
		collectionsAPI,
		huma.Operation{
			OperationID:   "removeRepository",
			Method:        http.MethodDelete,
			Path:          "/{id}/repositories/{repositoryId}",
			Summary:       "Stop tracking a repository in a collection",
			Tags:          append(tags, "Repositories"),
			DefaultStatus: http.StatusNoContent,
		},
		func(ctx context.Context, input *RemoveRepositoryRequest) (*struct{}, error) {
			err := manager.RemoveRepository(ctx, input.ID, input.RepositoryID, credential(input.Password))
			if err != nil {
				return nil, MapError(logger, err)
			}
			return nil, nil
		},
	)
}

func handleListCollections(
	ctx context.Context,
	logger hclog.Logger,
	manager contracts.CollectionManager,
) (*CollectionsResponse, error) {
	collections, err := manager.List(ctx)
	if err != nil {
		return nil, MapError(logger, err)
	}

	resp := &CollectionsResponse{Body: make([]CollectionSummary, 0, len(collections))}
	for _, c := range collections {
		resp.Body = append(resp.Body, DomainCollection(c).ToAPISummary())
	}

	return resp, nil
}

func handleCreateCollection(
	ctx context.Context,
	logger hclog.Logger,
	manager contracts.CollectionManager,
	name string,
	password string,
) (*CreateCollectionResponse, error) {
	c, err := manager.Create(ctx, name, password)
	if err != nil {
		return nil, MapError(logger, err)
	}

	return &CreateCollectionResponse{Body: DomainCollection(*c).ToAPISummary()}, nil
}

// handleGetCollection refreshes the collection's repositories before returning it.
func handleGetCollection(
	ctx context.Context,
	logger hclog.Logger,
	manager contracts.CollectionManager,
	id string,
) (*CollectionResponse, error) {
	c, report, err := manager.GetRefreshed(ctx, id)
	if err != nil {
		return nil, MapError(logger, err)
	}

	return &CollectionResponse{Body: DomainCollection(*c).ToAPIType(report)}, nil
}

func handleAddRepository(
	ctx context.Context,
	logger hclog.Logger,
	manager contracts.CollectionManager,
	input *AddRepositoryRequest,
) (*RepositoryResponse, error) {
	repo, err := manager.AddRepository(
		ctx,
		input.ID,
		input.Body.Name,
		input.Body.Owner,
		domain.Provider(strings.ToLower(strings.TrimSpace(input.Body.Provider))),
		credential(input.Password),
	)
	if err != nil {
		return nil, MapError(logger, err)
	}

	return &RepositoryResponse{Body: DomainRepository(*repo).ToAPIType()}, nil
}

// credential treats an absent password header as no credential.
func credential(password string) *string {
	if password == "" {
		return nil
	}
	return &password
}
