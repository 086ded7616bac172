package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/repotrack/repotrack/internal/domain"
	"github.com/repotrack/repotrack/internal/perms"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(hclog.NewNullLogger(), filepath.Join(t.TempDir(), "data", "repotrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func ptr[T any](v T) *T {
	return &v
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()

		_, err := Open(nil, filepath.Join(t.TempDir(), "db"))
		require.EqualError(t, err, "logger cannot be nil")
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := Open(hclog.NewNullLogger(), "  ")
		require.EqualError(t, err, "database path cannot be empty")
	})

	t.Run("creates parent directory and migrates", func(t *testing.T) {
		t.Parallel()

		s := testStore(t)
		require.NoError(t, s.Ping(context.Background()))

		var version int
		require.NoError(t, s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
		require.Equal(t, SchemaVersion, version)

		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		require.Zero(t, info.Mode().Perm()&^perms.SecureFile)
	})

	t.Run("reopen keeps data", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "repotrack.db")
		s, err := Open(hclog.NewNullLogger(), path)
		require.NoError(t, err)

		repo, err := s.EnsureRepository(context.Background(), "go", "golang", domain.ProviderGitHub)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = Open(hclog.NewNullLogger(), path)
		require.NoError(t, err)
		defer s.Close()

		got, err := s.Repository(context.Background(), repo.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "golang/go", got.FullName())
	})
}

func TestStore_Responses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	got, err := s.Response(ctx, "https://api.github.com/repos/a/b")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, s.StoreResponse(ctx, domain.CachedResponse{
		URL:       "https://api.github.com/repos/a/b",
		Body:      []byte(`{"id":1}`),
		ETag:      ptr(`"v1"`),
		CreatedAt: created,
	}))

	got, err = s.Response(ctx, "https://api.github.com/repos/a/b")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.JSONEq(t, `{"id":1}`, string(got.Body))
	require.Equal(t, `"v1"`, *got.ETag)
	require.True(t, created.Equal(got.CreatedAt))

	// Replace with an absent row, which must clear both body and validator.
	require.NoError(t, s.StoreResponse(ctx, domain.CachedResponse{
		URL:       "https://api.github.com/repos/a/b",
		CreatedAt: created.Add(time.Hour),
	}))

	got, err = s.Response(ctx, "https://api.github.com/repos/a/b")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Absent())
	require.Nil(t, got.ETag)
	require.True(t, created.Add(time.Hour).Equal(got.CreatedAt))

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM cached_responses").Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestStore_Repositories(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	first, err := s.EnsureRepository(ctx, "go", "golang", domain.ProviderGitHub)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Nil(t, first.LastCommitAt)
	require.Nil(t, first.LastReleaseAt)

	again, err := s.EnsureRepository(ctx, "go", "golang", domain.ProviderGitHub)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	other, err := s.EnsureRepository(ctx, "go", "golang", domain.ProviderGitLab)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID)

	missing, err := s.FindRepository(ctx, "rust", "rust-lang", domain.ProviderGitHub)
	require.NoError(t, err)
	require.Nil(t, missing)

	commit := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.UpdateRepositoryActivity(ctx, first.ID, &commit, nil))

	got, err := s.Repository(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastCommitAt)
	require.True(t, commit.Equal(*got.LastCommitAt))
	require.Nil(t, got.LastReleaseAt)

	release := commit.Add(24 * time.Hour)
	require.NoError(t, s.UpdateRepositoryActivity(ctx, first.ID, nil, &release))

	got, err = s.Repository(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, commit.Equal(*got.LastCommitAt))
	require.True(t, release.Equal(*got.LastReleaseAt))

	require.Error(t, s.UpdateRepositoryActivity(ctx, "unknown", &commit, nil))

	all, err := s.Repositories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, domain.ProviderGitHub, all[0].Provider)
	require.Equal(t, domain.ProviderGitLab, all[1].Provider)
}

func TestStore_CollectionsAndTracking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	open, err := s.CreateCollection(ctx, "open", nil)
	require.NoError(t, err)
	require.False(t, open.Protected)

	locked, err := s.CreateCollection(ctx, "locked", []byte("hash"))
	require.NoError(t, err)
	require.True(t, locked.Protected)

	got, err := s.Collection(ctx, locked.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "locked", got.Name)
	require.True(t, got.Protected)
	require.Equal(t, []byte("hash"), got.PasswordHash)

	got, err = s.Collection(ctx, open.ID)
	require.NoError(t, err)
	require.Nil(t, got.PasswordHash)

	missing, err := s.Collection(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	all, err := s.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	repo, err := s.EnsureRepository(ctx, "go", "golang", domain.ProviderGitHub)
	require.NoError(t, err)

	added, err := s.Track(ctx, open.ID, repo.ID)
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.Track(ctx, open.ID, repo.ID)
	require.NoError(t, err)
	require.False(t, added)

	added, err = s.Track(ctx, locked.ID, repo.ID)
	require.NoError(t, err)
	require.True(t, added)

	tracked, err := s.TrackedRepositories(ctx, open.ID)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	require.Equal(t, repo.ID, tracked[0].ID)

	removed, err := s.Untrack(ctx, open.ID, repo.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Untrack(ctx, open.ID, repo.ID)
	require.NoError(t, err)
	require.False(t, removed)

	// Deleting a collection keeps the repository and other collections' tracking rows.
	deleted, err := s.DeleteCollection(ctx, open.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.DeleteCollection(ctx, open.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	tracked, err = s.TrackedRepositories(ctx, locked.ID)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
}

func TestStore_DeleteRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	a, err := s.CreateCollection(ctx, "a", nil)
	require.NoError(t, err)
	b, err := s.CreateCollection(ctx, "b", nil)
	require.NoError(t, err)

	repo, err := s.EnsureRepository(ctx, "gone", "someone", domain.ProviderGitLab)
	require.NoError(t, err)
	keep, err := s.EnsureRepository(ctx, "kept", "someone", domain.ProviderGitLab)
	require.NoError(t, err)

	for _, id := range []string{a.ID, b.ID} {
		_, err := s.Track(ctx, id, repo.ID)
		require.NoError(t, err)
	}
	_, err = s.Track(ctx, a.ID, keep.ID)
	require.NoError(t, err)

	deleted, err := s.DeleteRepository(ctx, repo.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := s.Repository(ctx, repo.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	tracked, err := s.TrackedRepositories(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	require.Equal(t, keep.ID, tracked[0].ID)

	tracked, err = s.TrackedRepositories(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, tracked)

	deleted, err = s.DeleteRepository(ctx, repo.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestStore_TrackedRepositoriesAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	a, err := s.CreateCollection(ctx, "a", nil)
	require.NoError(t, err)
	b, err := s.CreateCollection(ctx, "b", nil)
	require.NoError(t, err)

	shared, err := s.EnsureRepository(ctx, "shared", "someone", domain.ProviderGitHub)
	require.NoError(t, err)
	orphan, err := s.EnsureRepository(ctx, "orphan", "someone", domain.ProviderGitHub)
	require.NoError(t, err)
	_, err = s.EnsureRepository(ctx, "never", "someone", domain.ProviderGitHub)
	require.NoError(t, err)

	for _, id := range []string{a.ID, b.ID} {
		_, err := s.Track(ctx, id, shared.ID)
		require.NoError(t, err)
	}
	_, err = s.Track(ctx, b.ID, orphan.ID)
	require.NoError(t, err)

	all, err := s.TrackedRepositoriesAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, orphan.ID, all[0].ID)
	require.Equal(t, shared.ID, all[1].ID)

	deleted, err := s.DeleteCollection(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	all, err = s.TrackedRepositoriesAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, shared.ID, all[0].ID)

	// The orphan row is kept, it is just no longer tracked.
	stored, err := s.Repositories(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestStore_TrackRequiresExistingRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := testStore(t)

	c, err := s.CreateCollection(ctx, "c", nil)
	require.NoError(t, err)

	_, err = s.Track(ctx, c.ID, "missing-repository")
	require.Error(t, err)
}
