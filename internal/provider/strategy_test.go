package provider

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/repotrack/repotrack/internal/domain"
)

func TestEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider domain.Provider
		build    func(domain.Provider, string, string) (string, error)
		expected string
	}{
		{"github repository", domain.ProviderGitHub, RepositoryEndpoint, "/repos/golang/go"},
		{"github commits", domain.ProviderGitHub, LatestCommitEndpoint, "/repos/golang/go/commits?per_page=1"},
		{"github releases", domain.ProviderGitHub, LatestReleaseEndpoint, "/repos/golang/go/releases?per_page=1"},
		{"gitlab repository", domain.ProviderGitLab, RepositoryEndpoint, "/projects/golang%2Fgo"},
		{"gitlab commits", domain.ProviderGitLab, LatestCommitEndpoint, "/projects/golang%2Fgo/repository/commits?per_page=1"},
		{"gitlab releases", domain.ProviderGitLab, LatestReleaseEndpoint, "/projects/golang%2Fgo/releases?per_page=1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.build(tc.provider, "golang", "go")
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}

	_, err := RepositoryEndpoint("bitbucket", "a", "b")
	require.EqualError(t, err, "unsupported provider 'bitbucket'")
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider domain.Provider
		value    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "github utc",
			provider: domain.ProviderGitHub,
			value:    "2024-03-01T10:20:30Z",
			expected: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		},
		{
			name:     "github rejects offsets",
			provider: domain.ProviderGitHub,
			value:    "2024-03-01T10:20:30+02:00",
			wantErr:  true,
		},
		{
			name:     "gitlab offset converted to utc",
			provider: domain.ProviderGitLab,
			value:    "2024-03-01T12:20:30.000+02:00",
			expected: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		},
		{
			name:     "gitlab utc",
			provider: domain.ProviderGitLab,
			value:    "2024-03-01T10:20:30Z",
			expected: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		},
		{
			name:     "garbage",
			provider: domain.ProviderGitLab,
			value:    "yesterday",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tc.provider, tc.value)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, tc.expected.Equal(got))
			require.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestLatestCommitDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider domain.Provider
		page     string
		expected *time.Time
		wantErr  bool
	}{
		{
			name:     "github",
			provider: domain.ProviderGitHub,
			page:     `[{"sha":"abc","commit":{"author":{"date":"2024-01-02T03:04:05Z"}}}]`,
			expected: ptr(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
		{
			name:     "gitlab",
			provider: domain.ProviderGitLab,
			page:     `[{"id":"abc","committed_date":"2024-01-02T04:04:05.000+01:00"}]`,
			expected: ptr(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
		{
			name:     "empty page",
			provider: domain.ProviderGitHub,
			page:     `[]`,
		},
		{
			name:     "not a list",
			provider: domain.ProviderGitLab,
			page:     `{"message":"nope"}`,
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := LatestCommitDate(tc.provider, json.RawMessage(tc.page))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.expected == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.True(t, tc.expected.Equal(*got))
		})
	}

	got, err := LatestCommitDate(domain.ProviderGitHub, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLatestReleaseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider domain.Provider
		page     string
		expected *time.Time
	}{
		{
			name:     "github published",
			provider: domain.ProviderGitHub,
			page:     `[{"published_at":"2024-05-06T07:08:09Z","created_at":"2024-05-01T00:00:00Z"}]`,
			expected: ptr(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		},
		{
			name:     "github draft falls back to created",
			provider: domain.ProviderGitHub,
			page:     `[{"published_at":null,"created_at":"2024-05-01T00:00:00Z"}]`,
			expected: ptr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "gitlab",
			provider: domain.ProviderGitLab,
			page:     `[{"tag_name":"v1","released_at":"2024-05-06T07:08:09Z"}]`,
			expected: ptr(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		},
		{
			name:     "no releases",
			provider: domain.ProviderGitLab,
			page:     `[]`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := LatestReleaseDate(tc.provider, json.RawMessage(tc.page))
			require.NoError(t, err)
			if tc.expected == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.True(t, tc.expected.Equal(*got))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
