package db

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openMemoryBadger(t *testing.T) *BadgerPersister {
	t.Helper()
	p, err := OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestBadgerRoundTrip(t *testing.T) {
	p := openMemoryBadger(t)
	ctx := context.Background()

	seed, err := services.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, seed))

	loaded, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, loaded)
}

func TestBadgerSaveRemovesStalePosts(t *testing.T) {
	p := openMemoryBadger(t)
	ctx := context.Background()

	posts := []models.Post{
		{ID: 1, Title: "one", Category: models.CategoryCSS, Comments: []models.Comment{}},
		{ID: 2, Title: "two", Category: models.CategoryCSS, Comments: []models.Comment{}},
		{ID: 10, Title: "ten", Category: models.CategoryCSS, Comments: []models.Comment{}},
	}
	require.NoError(t, p.Save(ctx, posts))
	require.NoError(t, p.Save(ctx, []models.Post{posts[0], posts[2]}))

	loaded, err := p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	// 10 排在 1 之后，key 补零有效
	assert.Equal(t, 1, loaded[0].ID)
	assert.Equal(t, 10, loaded[1].ID)
}

func TestBadgerBacksContentStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	seed, err := services.DefaultSeed()
	require.NoError(t, err)

	p, err := OpenBadger(dir, zap.NewNop().Sugar())
	require.NoError(t, err)
	store, err := services.NewContentStore(ctx, services.WithPersister(p), services.WithSeed(seed))
	require.NoError(t, err)

	created, err := store.Create(ctx, &models.Subject{ID: "dev:jo", Name: "Jo"}, models.Draft{
		Title:    "Persisted",
		Excerpt:  "survives restart",
		Content:  "body",
		Category: models.CategoryBackend,
	})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, 2))
	require.NoError(t, p.Close())

	// 重新打开后数据仍在，且不会再次写入种子
	p, err = OpenBadger(dir, nil)
	require.NoError(t, err)
	defer p.Close()
	reopened, err := services.NewContentStore(ctx, services.WithPersister(p), services.WithSeed(seed), services.WithClock(time.Now))
	require.NoError(t, err)

	posts := reopened.List()
	require.Len(t, posts, 6)
	_, ok := reopened.Get(2)
	assert.False(t, ok)
	got, ok := reopened.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Persisted", got.Title)
	assert.Equal(t, "dev:jo", got.Author.OwnerID)
}
