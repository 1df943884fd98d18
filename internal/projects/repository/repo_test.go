package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/domain"
)

func setupStore(t *testing.T) (*Store, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client), client
}

func fixtureProject(id string) domain.Project {
	date := time.Date(2019, time.March, 10, 12, 0, 0, 0, time.UTC)
	return domain.Project{
		ID:             id,
		Name:           "Project " + id,
		Author:         "Project Author",
		Type:           "Blankets",
		CreationDate:   date,
		LastUpdateDate: date,
		SvgDescription: "<svg/>",
		SvgProject:     "<svg/>",
	}
}

func seed(t *testing.T, store *Store, projects ...domain.Project) {
	t.Helper()
	for _, p := range projects {
		require.NoError(t, store.Insert(context.Background(), p))
	}
}

func TestList(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"), fixtureProject("2"), fixtureProject("3"))

	projects, err := store.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "1", projects[0].ID)
	assert.Equal(t, "2", projects[1].ID)

	projects, err = store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, projects, 3)
}

func TestList_InvalidLimit(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))

	_, err := store.List(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidAttribute)
}

func TestList_NilClient(t *testing.T) {
	store := NewStore(nil)

	_, err := store.List(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrInexistentDB)
}

func TestList_Empty(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.List(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrNoProjectsFound)
}

func TestList_InvalidDocumentAbortsBatch(t *testing.T) {
	store, client := setupStore(t)
	seed(t, store, fixtureProject("1"))

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "project:bad", `{"id":"bad"}`, 0).Err())
	require.NoError(t, client.RPush(ctx, "projects:all", "bad").Err())

	_, err := store.List(ctx, 10)
	require.Error(t, err)
	assert.Equal(t, domain.MsgInvalidProject, err.Error())
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetByID(t *testing.T) {
	store, _ := setupStore(t)
	p := fixtureProject("1")
	p.Liked = []domain.LikeRecord{
		{User: "1234567", Date: time.Date(2019, time.April, 1, 10, 0, 0, 0, time.UTC)},
		{User: "7654321", Date: time.Date(2019, time.April, 2, 10, 0, 0, 0, time.UTC)},
	}
	p.Pinned = []string{"1234567", "7654321"}
	seed(t, store, p)

	got, err := store.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "Project 1", got.Name)
	require.Len(t, got.Liked, 2)
	assert.Equal(t, "1234567", got.Liked[0].User)
	assert.Equal(t, "7654321", got.Liked[1].User)
	assert.Equal(t, []string{"1234567", "7654321"}, got.Pinned)
}

func TestGetByID_EmptyID(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.GetByID(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrInvalidAttribute)
}

func TestGetByID_Inexistent(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))

	_, err := store.GetByID(context.Background(), "999")
	require.ErrorIs(t, err, domain.ErrInexistentProject)
}

func TestAddLike(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))
	ctx := context.Background()

	like := domain.LikeRecord{User: "1234567", Date: time.Now()}
	require.NoError(t, store.AddLike(ctx, "1", like))

	p, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Len(t, p.Liked, 1)
	assert.Equal(t, "1234567", p.Liked[0].User)

	// A second like from the same user must not change the document.
	err = store.AddLike(ctx, "1", like)
	require.ErrorIs(t, err, domain.ErrAlreadyLiked)

	p, err = store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, p.Liked, 1)
}

func TestAddLike_InexistentProject(t *testing.T) {
	store, _ := setupStore(t)

	err := store.AddLike(context.Background(), "999", domain.LikeRecord{User: "1234567"})
	require.ErrorIs(t, err, domain.ErrInexistentProject)
}

func TestAddLike_ArgumentPrecedence(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	// Missing user id wins over missing project id.
	err := store.AddLike(ctx, "", domain.LikeRecord{})
	require.ErrorIs(t, err, domain.ErrInvalidUserID)

	err = store.AddLike(ctx, "", domain.LikeRecord{User: "1234567"})
	require.ErrorIs(t, err, domain.ErrInvalidProjectID)
}

func TestRemoveLike(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))
	ctx := context.Background()

	err := store.RemoveLike(ctx, "1", "1234567")
	require.ErrorIs(t, err, domain.ErrAlreadyRemovedLike)

	require.NoError(t, store.AddLike(ctx, "1", domain.LikeRecord{User: "1234567"}))
	require.NoError(t, store.RemoveLike(ctx, "1", "1234567"))

	p, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, p.Liked)
}

func TestAddPin(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))
	ctx := context.Background()

	require.NoError(t, store.AddPin(ctx, "1", "1234567"))
	require.NoError(t, store.AddPin(ctx, "1", "7654321"))

	p, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567", "7654321"}, p.Pinned)

	err = store.AddPin(ctx, "1", "1234567")
	require.ErrorIs(t, err, domain.ErrAlreadyPinned)

	p, err = store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, p.Pinned, 2)
}

func TestRemovePin(t *testing.T) {
	store, _ := setupStore(t)
	seed(t, store, fixtureProject("1"))
	ctx := context.Background()

	err := store.RemovePin(ctx, "1", "1234567")
	require.ErrorIs(t, err, domain.ErrAlreadyRemovedPin)

	require.NoError(t, store.AddPin(ctx, "1", "1234567"))
	require.NoError(t, store.RemovePin(ctx, "1", "1234567"))

	p, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, p.Pinned)
}

func TestPinToggle_RestoresLength(t *testing.T) {
	store, _ := setupStore(t)
	p := fixtureProject("1")
	p.Pinned = []string{"1111111", "2222222"}
	seed(t, store, p)
	ctx := context.Background()

	require.NoError(t, store.AddPin(ctx, "1", "3333333"))
	require.NoError(t, store.RemovePin(ctx, "1", "3333333"))

	got, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1111111", "2222222"}, got.Pinned)
}

func TestInsert_Invalid(t *testing.T) {
	store, _ := setupStore(t)

	p := fixtureProject("1")
	p.Author = ""
	err := store.Insert(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, domain.MsgInvalidProject, err.Error())
}

func TestInsert_Reinsert(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	seed(t, store, fixtureProject("1"), fixtureProject("2"))

	// Re-inserting an existing project must not duplicate the index entry.
	seed(t, store, fixtureProject("1"))

	projects, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
