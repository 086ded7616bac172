// Package reconcile keeps tracked repositories in line with their providers:
// it confirms repositories exist before they are tracked, refreshes their activity
// dates and removes them once they disappear upstream.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/errors"
	"github.com/repotrack/repotrack/internal/provider"
)

// Fetcher retrieves provider endpoints, returning a nil body for resources confirmed absent.
type Fetcher interface {
	Get(ctx context.Context, p domain.Provider, endpoint string) (json.RawMessage, error)
}

// Repositories persists repositories and their activity dates.
type Repositories interface {
	EnsureRepository(ctx context.Context, name string, owner string, p domain.Provider) (*domain.Repository, error)
	UpdateRepositoryActivity(ctx context.Context, id string, lastCommitAt *time.Time, lastReleaseAt *time.Time) error
	DeleteRepository(ctx context.Context, id string) (bool, error)
}

// Ensure the Dispatcher can serve as a Fetcher.
var _ Fetcher = (*provider.Dispatcher)(nil)

// Outcome is the result of refreshing a single repository.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeRemoved   Outcome = "removed"
)

// Report summarizes a refresh over several repositories, keyed by repository ID.
type Report struct {
	Updated   []string
	Unchanged []string
	Removed   []string
	Failed    map[string]error
}

// Stale reports whether refreshing the repository failed, leaving its stored data as last known.
func (r Report) Stale(id string) bool {
	_, ok := r.Failed[id]
	return ok
}

// Total returns the number of repositories covered by the report.
func (r Report) Total() int {
	return len(r.Updated) + len(r.Unchanged) + len(r.Removed) + len(r.Failed)
}

// Reconciler compares tracked repositories with their providers.
// NewReconciler should be used to create instances of Reconciler.
type Reconciler struct {
	fetcher      Fetcher
	repositories Repositories
	concurrency  int
	timeout      time.Duration
	logger       hclog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(logger hclog.Logger, fetcher Fetcher, repos Repositories, opts ...Option) (*Reconciler, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if fetcher == nil || reflect.ValueOf(fetcher).IsNil() {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}
	if repos == nil || reflect.ValueOf(repos).IsNil() {
		return nil, fmt.Errorf("repositories cannot be nil")
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Reconciler{
		fetcher:      fetcher,
		repositories: repos,
		concurrency:  options.concurrency,
		timeout:      options.timeout,
		logger:       logger.Named("reconcile"),
	}, nil
}

// Add confirms a repository exists upstream and returns its stored record, creating it if needed.
// Nothing is stored when the provider reports the repository does not exist.
func (r *Reconciler) Add(ctx context.Context, name string, owner string, p domain.Provider) (*domain.Repository, error) {
	name = strings.TrimSpace(name)
	owner = strings.TrimSpace(owner)
	if name == "" || owner == "" {
		return nil, fmt.Errorf("%w: repository name and owner are required", errors.ErrBadRequest)
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unsupported provider '%s'", errors.ErrBadRequest, p)
	}

	endpoint, err := provider.RepositoryEndpoint(p, owner, name)
	if err != nil {
		return nil, err
	}

	body, err := r.fetcher.Get(ctx, p, endpoint)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s/%s on %s", errors.ErrRepositoryNotFound, owner, name, p.DisplayName())
	}

	repo, err := r.repositories.EnsureRepository(ctx, name, owner, p)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Repository confirmed", "repository", repo.FullName(), "provider", p, "id", repo.ID)

	return repo, nil
}

// Refresh re-checks a tracked repository against its provider.
// A repository that no longer exists is deleted together with its tracking rows.
// Otherwise its commit and release dates are overwritten with the latest observed ones,
// while an empty or absent listing leaves the stored date as it was.
func (r *Reconciler) Refresh(ctx context.Context, repo domain.Repository) (Outcome, error) {
	endpoint, err := provider.RepositoryEndpoint(repo.Provider, repo.Owner, repo.Name)
	if err != nil {
		return "", err
	}

	body, err := r.fetcher.Get(ctx, repo.Provider, endpoint)
	if err != nil {
		return "", err
	}
	if body == nil {
		if _, err := r.repositories.DeleteRepository(ctx, repo.ID); err != nil {
			return "", err
		}
		r.logger.Info("Repository removed upstream", "repository", repo.FullName(), "provider", repo.Provider)
		return OutcomeRemoved, nil
	}

	commitAt, err := r.latest(ctx, repo, provider.LatestCommitEndpoint, provider.LatestCommitDate)
	if err != nil {
		return "", err
	}

	releaseAt, err := r.latest(ctx, repo, provider.LatestReleaseEndpoint, provider.LatestReleaseDate)
	if err != nil {
		return "", err
	}

	commitAt = changedTime(repo.LastCommitAt, commitAt)
	releaseAt = changedTime(repo.LastReleaseAt, releaseAt)
	if commitAt == nil && releaseAt == nil {
		return OutcomeUnchanged, nil
	}

	if err := r.repositories.UpdateRepositoryActivity(ctx, repo.ID, commitAt, releaseAt); err != nil {
		return "", err
	}

	r.logger.Debug(
		"Repository activity updated",
		"repository", repo.FullName(),
		"provider", repo.Provider,
		"lastCommitAt", commitAt,
		"lastReleaseAt", releaseAt,
	)

	return OutcomeUpdated, nil
}

// RefreshAll refreshes every repository, at most the configured number at a time.
// A failure refreshing one repository never prevents the others from being refreshed,
// it is recorded in the report instead. RefreshAll returns once every refresh has finished.
func (r *Reconciler) RefreshAll(ctx context.Context, repos []domain.Repository) Report {
	report := Report{Failed: map[string]error{}}

	var mu sync.Mutex
	eg := new(errgroup.Group)
	eg.SetLimit(r.concurrency)

	for _, repo := range repos {
		eg.Go(func() error {
			taskCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			outcome, err := r.Refresh(taskCtx, repo)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				r.logger.Warn("Failed to refresh repository", "repository", repo.FullName(), "provider", repo.Provider, "error", err)
				report.Failed[repo.ID] = err
				return nil
			}

			switch outcome {
			case OutcomeUpdated:
				report.Updated = append(report.Updated, repo.ID)
			case OutcomeUnchanged:
				report.Unchanged = append(report.Unchanged, repo.ID)
			case OutcomeRemoved:
				report.Removed = append(report.Removed, repo.ID)
			}

			return nil
		})
	}

	// Tasks never return errors.
	_ = eg.Wait()

	slices.Sort(report.Updated)
	slices.Sort(report.Unchanged)
	slices.Sort(report.Removed)

	return report
}

func (r *Reconciler) latest(
	ctx context.Context,
	repo domain.Repository,
	endpointFor func(domain.Provider, string, string) (string, error),
	dateOf func(domain.Provider, json.RawMessage) (*time.Time, error),
) (*time.Time, error) {
	endpoint, err := endpointFor(repo.Provider, repo.Owner, repo.Name)
	if err != nil {
		return nil, err
	}

	page, err := r.fetcher.Get(ctx, repo.Provider, endpoint)
	if err != nil {
		return nil, err
	}

	return dateOf(repo.Provider, page)
}

// changedTime returns observed when it differs from current, nil otherwise.
func changedTime(current *time.Time, observed *time.Time) *time.Time {
	if observed == nil {
		return nil
	}
	if current != nil && current.Equal(*observed) {
		return nil
	}

	return observed
}
