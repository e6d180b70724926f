package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/core/database"
	"user-api/internal/domain"
	"user-api/internal/repo"
)

func newTestRepo(t *testing.T) *repo.UserRepo {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "users.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return repo.NewUserRepo(db)
}

func seed(t *testing.T, r *repo.UserRepo, names ...string) []domain.User {
	t.Helper()
	out := make([]domain.User, 0, len(names))
	for _, n := range names {
		u := domain.User{Name: n, Email: "x@example.com", Password: "digest"}
		require.NoError(t, r.Create(context.Background(), &u))
		out = append(out, u)
	}
	return out
}

func TestUserRepo_CreateAssignsIDs(t *testing.T) {
	r := newTestRepo(t)
	users := seed(t, r, "Hans Huber", "Erika Muster")

	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)
}

func TestUserRepo_CreateDuplicateName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seed(t, r, "Hans Huber")

	err := r.Create(ctx, &domain.User{Name: "Hans Huber", Email: "y@example.com", Password: "d"})
	assert.ErrorIs(t, err, domain.ErrNameTaken)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepo_ListEmptyIsNotNil(t *testing.T) {
	r := newTestRepo(t)

	users, err := r.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserRepo_ListOrderedByID(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, "c", "a", "b")

	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{users[0].Name, users[1].Name, users[2].Name})
}

func TestUserRepo_FindByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seed(t, r, "Hans Huber")

	u, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hans Huber", u.Name)

	_, err = r.FindByID(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_FindByName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.FindByName(ctx, "Hans Huber", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seed(t, r, "Hans Huber")

	u, err := r.FindByName(ctx, "Hans Huber", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = r.FindByName(ctx, "Hans", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err = r.FindByName(ctx, "Hans", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestUserRepo_FindByNameLikeIsCaseSensitive(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, "Hans Huber")

	_, err := r.FindByName(context.Background(), "hans", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_FindByNameLikeAmbiguous(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, "Hans Huber", "Hans Meier")

	_, err := r.FindByName(context.Background(), "Hans", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_FindByNameLikeEscapesWildcards(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, "Hans Huber")

	_, err := r.FindByName(context.Background(), "%", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.FindByName(context.Background(), "H_ns", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	users := seed(t, r, "Hans Huber", "Erika Muster")

	u := users[0]
	u.Email = "new@example.com"
	u.Password = "newdigest"
	require.NoError(t, r.Update(ctx, &u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hans Huber", got.Name)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "newdigest", got.Password)

	clash := users[1]
	clash.Name = "Hans Huber"
	assert.ErrorIs(t, r.Update(ctx, &clash), domain.ErrNameTaken)
}

func TestUserRepo_UpdateVanishedRow(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seed(t, r, "Hans Huber")[0]
	require.NoError(t, r.Delete(ctx, u.ID))

	u.Email = "new@example.com"
	assert.ErrorIs(t, r.Update(ctx, &u), domain.ErrNotFound)
}

func TestUserRepo_UpdateUnchangedRow(t *testing.T) {
	r := newTestRepo(t)
	u := seed(t, r, "Hans Huber")[0]
	assert.NoError(t, r.Update(context.Background(), &u))
}

func TestUserRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seed(t, r, "Hans Huber")

	require.NoError(t, r.Delete(ctx, 1))
	assert.ErrorIs(t, r.Delete(ctx, 1), domain.ErrNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
