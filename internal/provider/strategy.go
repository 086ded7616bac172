package provider

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/repotrack/repotrack/internal/domain"
)

const (
	// GitHubBaseURL is the default API root for GitHub.
	GitHubBaseURL = "https://api.github.com"

	// GitLabBaseURL is the default API root for GitLab.
	GitLabBaseURL = "https://gitlab.com/api/v4"

	// githubDateLayout is the second precision UTC layout GitHub uses for every date field.
	githubDateLayout = "2006-01-02T15:04:05Z"
)

// strategy captures everything that differs between providers when talking to their APIs.
type strategy struct {
	defaultBaseURL  string
	accept          string
	rateLimitHeader string
}

// strategyFor returns the strategy for p.
func strategyFor(p domain.Provider) (strategy, error) {
	switch p {
	case domain.ProviderGitHub:
		return strategy{
			defaultBaseURL:  GitHubBaseURL,
			accept:          "application/vnd.github.v3+json",
			rateLimitHeader: "X-RateLimit-Remaining",
		}, nil
	case domain.ProviderGitLab:
		return strategy{
			defaultBaseURL:  GitLabBaseURL,
			rateLimitHeader: "RateLimit-Remaining",
		}, nil
	default:
		return strategy{}, fmt.Errorf("unsupported provider '%s'", p)
	}
}

// RepositoryEndpoint returns the endpoint describing the repository itself.
func RepositoryEndpoint(p domain.Provider, owner string, name string) (string, error) {
	switch p {
	case domain.ProviderGitHub:
		return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name), nil
	case domain.ProviderGitLab:
		return "/projects/" + url.PathEscape(owner) + "%2F" + url.PathEscape(name), nil
	default:
		return "", fmt.Errorf("unsupported provider '%s'", p)
	}
}

// LatestCommitEndpoint returns the endpoint listing only the most recent commit of the repository.
func LatestCommitEndpoint(p domain.Provider, owner string, name string) (string, error) {
	base, err := RepositoryEndpoint(p, owner, name)
	if err != nil {
		return "", err
	}

	switch p {
	case domain.ProviderGitHub:
		return base + "/commits?per_page=1", nil
	case domain.ProviderGitLab:
		return base + "/repository/commits?per_page=1", nil
	default:
		return "", fmt.Errorf("unsupported provider '%s'", p)
	}
}

// LatestReleaseEndpoint returns the endpoint listing only the most recent release of the repository.
func LatestReleaseEndpoint(p domain.Provider, owner string, name string) (string, error) {
	base, err := RepositoryEndpoint(p, owner, name)
	if err != nil {
		return "", err
	}

	switch p {
	case domain.ProviderGitHub, domain.ProviderGitLab:
		return base + "/releases?per_page=1", nil
	default:
		return "", fmt.Errorf("unsupported provider '%s'", p)
	}
}

// ParseDate parses a date as formatted by the provider's API, returning it in UTC.
func ParseDate(p domain.Provider, value string) (time.Time, error) {
	var (
		t   time.Time
		err error
	)

	switch p {
	case domain.ProviderGitHub:
		t, err = time.Parse(githubDateLayout, value)
	case domain.ProviderGitLab:
		t, err = time.Parse(time.RFC3339, value)
	default:
		return time.Time{}, fmt.Errorf("unsupported provider '%s'", p)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date '%s': %w", p.DisplayName(), value, err)
	}

	return t.UTC(), nil
}

type githubCommit struct {
	Commit struct {
		Author struct {
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type gitlabCommit struct {
	CommittedDate string `json:"committed_date"`
}

type githubRelease struct {
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
}

type gitlabRelease struct {
	ReleasedAt string `json:"released_at"`
}

// LatestCommitDate extracts the date of the first commit in a latest-commit page.
// It returns nil when the page is absent or lists no commits.
func LatestCommitDate(p domain.Provider, page json.RawMessage) (*time.Time, error) {
	if page == nil {
		return nil, nil
	}

	var value string
	switch p {
	case domain.ProviderGitHub:
		commits, err := decodePage[githubCommit](page)
		if err != nil || len(commits) == 0 {
			return nil, err
		}
		value = commits[0].Commit.Author.Date
	case domain.ProviderGitLab:
		commits, err := decodePage[gitlabCommit](page)
		if err != nil || len(commits) == 0 {
			return nil, err
		}
		value = commits[0].CommittedDate
	default:
		return nil, fmt.Errorf("unsupported provider '%s'", p)
	}

	t, err := ParseDate(p, value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// LatestReleaseDate extracts the date of the first release in a latest-release page.
// It returns nil when the page is absent or lists no releases.
func LatestReleaseDate(p domain.Provider, page json.RawMessage) (*time.Time, error) {
	if page == nil {
		return nil, nil
	}

	var value string
	switch p {
	case domain.ProviderGitHub:
		releases, err := decodePage[githubRelease](page)
		if err != nil || len(releases) == 0 {
			return nil, err
		}
		// Draft releases have no publication date.
		value = releases[0].CreatedAt
		if releases[0].PublishedAt != nil {
			value = *releases[0].PublishedAt
		}
	case domain.ProviderGitLab:
		releases, err := decodePage[gitlabRelease](page)
		if err != nil || len(releases) == 0 {
			return nil, err
		}
		value = releases[0].ReleasedAt
	default:
		return nil, fmt.Errorf("unsupported provider '%s'", p)
	}

	t, err := ParseDate(p, value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func decodePage[T any](page json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(page, &items); err != nil {
		return nil, fmt.Errorf("failed to decode provider page: %w", err)
	}

	return items, nil
}
