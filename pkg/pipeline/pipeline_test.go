package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
	"vidtube.com/pkg/visibility"
)

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return base }
	ctx := context.Background()
	insert := func(c store.Collection, d store.Doc) {
		require.NoError(t, s.Insert(ctx, c, d))
	}
	insert(store.Users, store.Doc{"id": "u1", "username": "ann", "email": "ann@x.io", "password": "hash", "refresh_token": "rt"})
	insert(store.Users, store.Doc{"id": "u2", "username": "bob", "email": "bob@x.io", "password": "hash"})
	insert(store.Videos, store.Doc{"id": "v1", "owner": "u1", "title": "one", "is_public": true, "is_nsfw": false, "views": int64(5)})
	insert(store.Videos, store.Doc{"id": "v2", "owner": "u1", "title": "two", "is_public": false, "is_nsfw": false, "views": int64(9)})
	insert(store.Videos, store.Doc{"id": "v3", "owner": "u2", "title": "three", "is_public": true, "is_nsfw": false, "views": int64(1)})
	insert(store.Videos, store.Doc{"id": "v4", "owner": "ghost", "title": "four", "is_public": true, "is_nsfw": false, "views": int64(7)})
	insert(store.Playlists, store.Doc{"id": "p1", "owner": "u1", "visibility": "public", "videos": []string{"v3", "v2", "v1"}})
	return s
}

var owner = pipeline.LookupOne{
	From: store.Users, LocalField: "owner", ForeignField: "id", As: "owner",
	Pipeline: []pipeline.Stage{pipeline.Project{Include: []string{"username", "email"}}},
}

func TestPrefix(t *testing.T) {
	p := pipeline.Pipeline{Stages: []pipeline.Stage{
		pipeline.Match{Filter: store.Where(store.Eq("a", 1))},
		pipeline.Lookup{From: store.Users},
		pipeline.LookupOne{From: store.Users, Required: true},
		pipeline.AddFields{},
		pipeline.Sort{},
	}}
	assert.Len(t, p.Prefix(), 3)

	p.Stages = []pipeline.Stage{pipeline.Sort{}, pipeline.Project{}}
	assert.Empty(t, p.Prefix())
}

func TestJoinRedactsUsers(t *testing.T) {
	x := pipeline.NewExecutor(seed(t))
	docs, err := x.Run(context.Background(), pipeline.Pipeline{
		From:   store.Videos,
		Stages: []pipeline.Stage{pipeline.Match{Filter: store.Where(store.Eq("id", "v1"))}, owner},
	}, pipeline.Env{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	u, ok := docs[0]["owner"].(store.Doc)
	require.True(t, ok)
	assert.Equal(t, "ann", u["username"])
	for _, f := range []string{"email", "password", "refresh_token"} {
		assert.NotContains(t, u, f)
	}
}

func TestRequiredLookupDropsOrphans(t *testing.T) {
	x := pipeline.NewExecutor(seed(t))
	req := owner
	req.Required = true
	p := pipeline.Pipeline{From: store.Videos, Stages: []pipeline.Stage{req}}

	docs, err := x.Run(context.Background(), p, pipeline.Env{})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	total, err := x.Count(context.Background(), p, pipeline.Env{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestLookupPreservesArrayOrder(t *testing.T) {
	x := pipeline.NewExecutor(seed(t))
	p := pipeline.Pipeline{From: store.Playlists, Stages: []pipeline.Stage{
		pipeline.Lookup{
			From: store.Videos, LocalField: "videos", ForeignField: "id", As: "videos",
			PreserveOrder: true,
			Pipeline:      []pipeline.Stage{owner, pipeline.Guard{Rule: visibility.Video}},
		},
	}}

	docs, err := x.Run(context.Background(), p, pipeline.Env{Viewer: "u1"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"v3", "v2", "v1"}, keys(docs[0].Docs("videos")))

	docs, err = x.Run(context.Background(), p, pipeline.Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{"v3", "v1"}, keys(docs[0].Docs("videos")))
}

func TestPageMatchesFullRun(t *testing.T) {
	x := pipeline.NewExecutor(seed(t))
	byViews := pipeline.Sort{Keys: []store.SortKey{{Field: "views", Desc: true}}}
	pushed := pipeline.Pipeline{From: store.Videos, Stages: []pipeline.Stage{
		pipeline.Guard{Rule: visibility.Video}, byViews, owner,
	}}
	req := owner
	req.Required = true
	inMemory := pipeline.Pipeline{From: store.Videos, Stages: []pipeline.Stage{
		pipeline.Guard{Rule: visibility.Video}, req, byViews,
	}}
	ctx := context.Background()
	env := pipeline.Env{Viewer: "u1"}

	all, err := x.Run(ctx, pushed, env)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v4", "v1", "v3"}, keys(all))

	page, err := x.Page(ctx, pushed, env, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"v4", "v1"}, keys(page))

	// the orphaned v4 is dropped by the required owner lookup before sorting
	page, err = x.Page(ctx, inMemory, env, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v3"}, keys(page))
	total, err := x.Count(ctx, inMemory, env)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	page, err = x.Page(ctx, inMemory, env, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestDerivers(t *testing.T) {
	env := pipeline.Env{Viewer: "u1"}
	d := store.Doc{
		"id":    "c1",
		"likes": []store.Doc{{"actor": "u2"}, {"actor": store.Doc{"id": "u1"}}},
		"tags":  []string{"a", "b"},
		"video": "v2",
	}
	assert.EqualValues(t, 2, pipeline.Size("likes")(d, env))
	assert.Equal(t, true, pipeline.ViewerIn("likes", "actor")(d, env))
	assert.Equal(t, false, pipeline.ViewerIn("likes", "actor")(d, pipeline.Env{}))
	assert.Equal(t, true, pipeline.Contains("tags", "b")(d, env))
	assert.EqualValues(t, 1, pipeline.IndexIn("video", []string{"v1", "v2"})(d, env))
	assert.EqualValues(t, 2, pipeline.IndexIn("video", []string{"v1", "v3"})(d, env))
}

func keys(docs []store.Doc) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Key()
	}
	return out
}
