package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

func TestInsertGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Insert(ctx, store.Videos, store.Doc{"id": "v1", "title": "first"}))
	got, err := s.Get(ctx, store.Videos, "v1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.String("title"))
	assert.False(t, got.Time(store.FieldCreatedAt).IsZero())

	got["title"] = "mutated copy"
	again, _ := s.Get(ctx, store.Videos, "v1")
	assert.Equal(t, "first", again.String("title"))

	require.NoError(t, s.Update(ctx, store.Videos, "v1", store.Doc{"title": "second"}))
	again, _ = s.Get(ctx, store.Videos, "v1")
	assert.Equal(t, "second", again.String("title"))

	require.NoError(t, s.Delete(ctx, store.Videos, "v1"))
	_, err = s.Get(ctx, store.Videos, "v1")
	assert.True(t, errno.IsNotFound(err))
	assert.True(t, errno.IsNotFound(s.Delete(ctx, store.Videos, "v1")))
	assert.True(t, errno.IsNotFound(s.Update(ctx, store.Videos, "v1", store.Doc{})))
}

func TestUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Insert(ctx, store.Reactions, store.Doc{"actor": "a", "target": "video:v", "kind": "like"}))
	err := s.Insert(ctx, store.Reactions, store.Doc{"actor": "a", "target": "video:v", "kind": "dislike"})
	assert.True(t, errno.IsConflict(err))
	require.NoError(t, s.Insert(ctx, store.Reactions, store.Doc{"actor": "b", "target": "video:v", "kind": "like"}))

	require.NoError(t, s.Insert(ctx, store.Users, store.Doc{"id": "u1", "username": "alice", "email": "a@x.io"}))
	require.NoError(t, s.Insert(ctx, store.Users, store.Doc{"id": "u2", "username": "bob", "email": "b@x.io"}))
	assert.True(t, errno.IsConflict(s.Update(ctx, store.Users, "u2", store.Doc{"email": "a@x.io"})))
	assert.NoError(t, s.Update(ctx, store.Users, "u1", store.Doc{"email": "a@x.io"}))
}

func TestFindSortSkipLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return base }

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Insert(ctx, store.Comments, store.Doc{"id": id, "video": "v"}))
	}
	require.NoError(t, s.Insert(ctx, store.Comments, store.Doc{"id": "z", "video": "other"}))

	docs, err := s.Find(ctx, store.Comments, store.Where(store.Eq("video", "v")), &store.FindOptions{
		Sort:  []store.SortKey{{Field: store.FieldCreatedAt, Desc: true}},
		Skip:  1,
		Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d", docs[0].Key())
	assert.Equal(t, "c", docs[1].Key())

	n, err := s.Count(ctx, store.Comments, store.Where(store.Eq("video", "v")))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	deleted, err := s.DeleteMany(ctx, store.Comments, store.Where(store.In("id", []string{"a", "z"})))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Find(ctx, store.Videos, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// Readers on collections nobody has written yet must not race each other
// (run with -race).
func TestConcurrentReadsOnFreshStore(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		s := New()
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range []store.Collection{store.Comments, store.Reactions, store.Users} {
			c := c
			g.Go(func() error {
				_, err := s.Count(gctx, c, store.Where(store.Eq("video", "v1")))
				return err
			})
			g.Go(func() error {
				_, err := s.Find(gctx, c, store.Where(store.Eq("video", "v1")), &store.FindOptions{Limit: 10})
				return err
			})
			g.Go(func() error {
				_, err := s.Get(gctx, c, "missing")
				if errno.IsNotFound(err) {
					return nil
				}
				return err
			})
		}
		require.NoError(t, g.Wait())
	}
}
