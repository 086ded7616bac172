package printer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/reconcile"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestNewCollectionResult(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	commit := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)

	c := domain.Collection{
		ID:           "c1",
		Name:         "mine",
		Protected:    true,
		PasswordHash: []byte("hash"),
		CreatedAt:    created,
		Repositories: []domain.Repository{
			{ID: "r1", Name: "hello", Owner: "octo", Provider: domain.ProviderGitHub, LastCommitAt: &commit},
			{ID: "r2", Name: "world", Owner: "group", Provider: domain.ProviderGitLab},
		},
	}

	report := &reconcile.Report{
		Unchanged: []string{"r1"},
		Failed:    map[string]error{"r2": errors.New("GitLab rate limit exceeded")},
	}

	got := NewCollectionResult(c, report)

	require.Equal(t, CollectionResult{
		ID:        "c1",
		Name:      "mine",
		Protected: true,
		CreatedAt: created,
		Repositories: []RepositoryResult{
			{ID: "r1", Name: "hello", Owner: "octo", Provider: "github", LastCommitAt: &commit},
			{ID: "r2", Name: "world", Owner: "group", Provider: "gitlab", Stale: true},
		},
	}, got)

	require.False(t, NewCollectionResult(c, nil).Repositories[1].Stale)
}

func TestNewRefreshResult(t *testing.T) {
	t.Parallel()

	got := NewRefreshResult(reconcile.Report{
		Updated: []string{"a"},
		Failed:  map[string]error{"b": errors.New("boom")},
	})

	require.Equal(t, RefreshResult{
		Updated:   []string{"a"},
		Unchanged: []string{},
		Removed:   []string{},
		Failed:    map[string]string{"b": "boom"},
	}, got)

	require.Nil(t, NewRefreshResult(reconcile.Report{}).Failed)
}

func TestRepositoryPrinter_Item(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := NewRepositoryPrinter("  ")

	err := p.Item(buf, RepositoryResult{
		ID:            "r1",
		Name:          "hello",
		Owner:         "octo",
		Provider:      "github",
		LastReleaseAt: ptrTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		Stale:         true,
	})
	require.NoError(t, err)

	want := "  octo/hello (github) [stale]\n" +
		"    ID: r1\n" +
		"    Last commit: unknown\n" +
		"    Last release: 2024-01-02T03:04:05Z\n"
	require.Equal(t, want, buf.String())
}

func TestCollectionPrinter_Item(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   CollectionResult
		want string
	}{
		{
			name: "without repositories",
			in: CollectionResult{
				ID:        "c1",
				Name:      "mine",
				CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			want: "mine (open)\n" +
				"  ID: c1\n" +
				"  Created: 2024-03-01T12:00:00Z\n",
		},
		{
			name: "with repositories",
			in: CollectionResult{
				ID:        "c2",
				Name:      "team",
				Protected: true,
				CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
				Repositories: []RepositoryResult{
					{ID: "r1", Name: "hello", Owner: "octo", Provider: "github"},
				},
			},
			want: "team (protected)\n" +
				"  ID: c2\n" +
				"  Created: 2024-03-01T12:00:00Z\n" +
				"  Repositories (1):\n" +
				"    octo/hello (github)\n" +
				"      ID: r1\n" +
				"      Last commit: unknown\n" +
				"      Last release: unknown\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			require.NoError(t, NewCollectionPrinter().Item(buf, tc.in))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestCollectionListPrinter_HeaderFooter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := NewCollectionListPrinter()

	p.Header(buf, 2)
	p.Footer(buf, 2)
	require.Equal(t, "Collections\n\n\n2 collections\n", buf.String())

	buf.Reset()
	p.Footer(buf, 1)
	require.Equal(t, "\n1 collection\n", buf.String())

	// A bare printer writes neither.
	buf.Reset()
	bare := NewCollectionPrinter()
	bare.Header(buf, 3)
	bare.Footer(buf, 3)
	require.Empty(t, buf.String())
}

func TestRefreshPrinter_Item(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &RefreshPrinter{}

	err := p.Item(buf, RefreshResult{
		Updated:   []string{"a"},
		Unchanged: []string{"b", "c"},
		Failed:    map[string]string{"e": "rate limited", "d": "bad credentials"},
	})
	require.NoError(t, err)

	want := "Refreshed 5 repositories\n" +
		"  updated: 1, unchanged: 2, removed: 0, failed: 2\n" +
		"  ✗ d: bad credentials\n" +
		"  ✗ e: rate limited\n"
	require.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, p.Item(buf, RefreshResult{Removed: []string{"x"}}))
	require.Equal(t, "Refreshed 1 repository\n  updated: 0, unchanged: 0, removed: 1, failed: 0\n", buf.String())
}
