package printer

import (
	"time"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/reconcile"
)

// RepositoryResult is the rendered form of a tracked repository.
type RepositoryResult struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Owner         string     `json:"owner" yaml:"owner"`
	Provider      string     `json:"provider" yaml:"provider"`
	LastCommitAt  *time.Time `json:"lastCommitAt,omitempty" yaml:"last_commit_at,omitempty"`
	LastReleaseAt *time.Time `json:"lastReleaseAt,omitempty" yaml:"last_release_at,omitempty"`

	// Stale is set when refreshing the repository failed and its data is the last known.
	Stale bool `json:"stale,omitempty" yaml:"stale,omitempty"`
}

// CollectionResult is the rendered form of a collection.
type CollectionResult struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	Protected    bool               `json:"protected" yaml:"protected"`
	CreatedAt    time.Time          `json:"createdAt" yaml:"created_at"`
	Repositories []RepositoryResult `json:"repositories,omitempty" yaml:"repositories,omitempty"`
}

// RefreshResult summarizes a refresh, listing repository IDs per outcome.
type RefreshResult struct {
	Updated   []string          `json:"updated" yaml:"updated"`
	Unchanged []string          `json:"unchanged" yaml:"unchanged"`
	Removed   []string          `json:"removed" yaml:"removed"`
	Failed    map[string]string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// NewRepositoryResult converts a repository.
func NewRepositoryResult(r domain.Repository) RepositoryResult {
	return RepositoryResult{
		ID:            r.ID,
		Name:          r.Name,
		Owner:         r.Owner,
		Provider:      r.Provider.String(),
		LastCommitAt:  r.LastCommitAt,
		LastReleaseAt: r.LastReleaseAt,
	}
}

// NewCollectionResult converts a collection and its loaded repositories.
// When report is non-nil, repositories whose refresh failed are flagged stale.
func NewCollectionResult(c domain.Collection, report *reconcile.Report) CollectionResult {
	res := CollectionResult{
		ID:        c.ID,
		Name:      c.Name,
		Protected: c.Protected,
		CreatedAt: c.CreatedAt,
	}

	for _, r := range c.Repositories {
		rr := NewRepositoryResult(r)
		rr.Stale = report != nil && report.Stale(r.ID)
		res.Repositories = append(res.Repositories, rr)
	}

	return res
}

// NewRefreshResult converts a refresh report.
func NewRefreshResult(report reconcile.Report) RefreshResult {
	res := RefreshResult{
		Updated:   nonNil(report.Updated),
		Unchanged: nonNil(report.Unchanged),
		Removed:   nonNil(report.Removed),
	}

	if len(report.Failed) > 0 {
		res.Failed = make(map[string]string, len(report.Failed))
		for id, err := range report.Failed {
			res.Failed[id] = err.Error()
		}
	}

	return res
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
