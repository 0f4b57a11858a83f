package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
)

type fakeUploader struct{ removed []string }

func (f *fakeUploader) Upload(_ context.Context, bucket, localPath string) (string, error) {
	return "http://oss/" + bucket + "/" + localPath, nil
}

func (f *fakeUploader) Remove(_ context.Context, _ string, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type fakeIndex struct {
	indexed map[string]string
}

func (f *fakeIndex) IndexVideo(_ context.Context, v store.Doc) error {
	f.indexed[v.Key()] = v.String("title")
	return nil
}

func (f *fakeIndex) DeleteVideo(_ context.Context, key string) error {
	delete(f.indexed, key)
	return nil
}

type fixture struct {
	ctx   context.Context
	s     *memstore.Store
	up    *fakeUploader
	index *fakeIndex
	owner string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	probeDuration = func(string) (float64, error) { return 12.5, nil }
	firstFrame = func(string, string) (string, error) { return "frame.jpg", nil }
	f := &fixture{ctx: context.Background(), s: memstore.New(), up: &fakeUploader{}, index: &fakeIndex{indexed: map[string]string{}}}
	f.owner = f.user(t, true)
	return f
}

func (f *fixture) user(t *testing.T, terms bool) string {
	t.Helper()
	k := store.NewKey()
	require.NoError(t, f.s.Insert(f.ctx, store.Users, store.Doc{store.FieldID: k, "username": k, "email": k, "upload_terms_accepted": terms}))
	return k
}

func (f *fixture) publish(t *testing.T, owner, title string) store.Doc {
	t.Helper()
	v, err := NewVideoUploadService(f.ctx, f.s, f.up, f.index).Publish(&PublishRequest{
		Owner: owner, Title: title, Description: "about " + title, VideoPath: title + ".mp4",
	})
	require.NoError(t, err)
	return v
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	v := f.publish(t, f.owner, "intro")
	assert.Equal(t, 12.5, v["duration"])
	assert.Equal(t, "http://oss/video/intro.mp4", v["video_file"])
	assert.Equal(t, "http://oss/picture/frame.jpg", v["thumbnail"])
	assert.True(t, v.Bool("is_public"))
	assert.Equal(t, "intro", f.index.indexed[v.Key()])

	_, err := NewVideoUploadService(f.ctx, f.s, f.up, nil).Publish(&PublishRequest{
		Owner: f.user(t, false), Title: "x", Description: "y", VideoPath: "x.mp4",
	})
	assert.ErrorIs(t, err, errno.ParamErr)
}

func TestUpdateAndDeleteVideo(t *testing.T) {
	f := newFixture(t)
	v := f.publish(t, f.owner, "intro")
	other := f.user(t, true)
	manage := NewVideoManageService(f.ctx, f.s, f.up, f.index)

	_, err := manage.UpdateVideo(other, v.Key(), &UpdateVideoRequest{Title: "mine"})
	assert.ErrorIs(t, err, errno.AuthorizationFailedErr)

	private := false
	got, err := manage.UpdateVideo(f.owner, v.Key(), &UpdateVideoRequest{Title: "renamed", ThumbnailPath: "new.jpg", IsPublic: &private})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got["title"])
	assert.False(t, got.Bool("is_public"))
	assert.Equal(t, []string{"http://oss/picture/frame.jpg"}, f.up.removed)
	assert.Equal(t, "renamed", f.index.indexed[v.Key()])

	comment := store.NewKey()
	require.NoError(t, f.s.Insert(f.ctx, store.Comments, store.Doc{store.FieldID: comment, "video": v.Key(), "owner": other, "content": "hi"}))
	require.NoError(t, f.s.Insert(f.ctx, store.Reactions, store.Doc{"actor": other, "target": "video:" + v.Key(), "video": v.Key(), "kind": "like"}))
	require.NoError(t, f.s.Insert(f.ctx, store.Reactions, store.Doc{"actor": other, "target": "comment:" + comment, "comment": comment, "kind": "like"}))

	require.NoError(t, manage.DeleteVideo(f.owner, v.Key()))
	_, err = f.s.Get(f.ctx, store.Videos, v.Key())
	assert.ErrorIs(t, err, errno.NotFoundErr)
	for _, c := range []store.Collection{store.Comments, store.Reactions} {
		n, err := f.s.Count(f.ctx, c, nil)
		require.NoError(t, err)
		assert.Zero(t, n, c)
	}
	assert.NotContains(t, f.index.indexed, v.Key())
}

func TestPlaylists(t *testing.T) {
	f := newFixture(t)
	a, b := f.publish(t, f.owner, "a"), f.publish(t, f.owner, "b")
	svc := NewPlaylistService(f.ctx, f.s)

	p, err := svc.CreatePlaylist(f.owner, &PlaylistRequest{Title: "mix", Videos: []string{a.Key(), a.Key()}})
	require.NoError(t, err)
	assert.Equal(t, "private", p["visibility"])
	assert.Equal(t, []string{a.Key()}, p.Strings("videos"))

	_, err = svc.CreatePlaylist(f.owner, &PlaylistRequest{Title: "bad", Visibility: "friends"})
	assert.ErrorIs(t, err, errno.ParamErr)

	q, err := svc.CreatePlaylist(f.owner, &PlaylistRequest{Title: "later", Visibility: "public"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateVideoPlaylists(f.owner, b.Key(), []string{p.Key(), q.Key()}, nil))
	require.NoError(t, svc.UpdateVideoPlaylists(f.owner, b.Key(), []string{p.Key()}, nil))
	require.NoError(t, svc.UpdateVideoPlaylists(f.owner, a.Key(), nil, []string{p.Key()}))

	p, _ = f.s.Get(f.ctx, store.Playlists, p.Key())
	q, _ = f.s.Get(f.ctx, store.Playlists, q.Key())
	assert.Equal(t, []string{b.Key()}, p.Strings("videos"))
	assert.Equal(t, []string{b.Key()}, q.Strings("videos"))

	stranger := f.user(t, true)
	err = svc.UpdateVideoPlaylists(stranger, a.Key(), []string{p.Key()}, nil)
	assert.ErrorIs(t, err, errno.AuthorizationFailedErr)
	err = svc.UpdateVideoPlaylists(f.owner, a.Key(), []string{p.Key()}, []string{p.Key()})
	assert.ErrorIs(t, err, errno.ParamErr)

	updated, err := svc.UpdatePlaylist(f.owner, q.Key(), &PlaylistRequest{Title: "now", Videos: []string{a.Key(), b.Key()}})
	require.NoError(t, err)
	assert.Equal(t, "now", updated["title"])
	assert.Equal(t, "public", updated["visibility"])
	assert.Equal(t, []string{a.Key(), b.Key()}, updated.Strings("videos"))

	assert.ErrorIs(t, svc.DeletePlaylist(stranger, q.Key()), errno.AuthorizationFailedErr)
	require.NoError(t, svc.DeletePlaylist(f.owner, q.Key()))
	assert.ErrorIs(t, svc.DeletePlaylist(f.owner, q.Key()), errno.NotFoundErr)
}

type memCounter struct{ counts map[string]int64 }

func (m *memCounter) Incr(_ context.Context, text string, _ int64) error {
	m.counts[text]++
	return nil
}

func (m *memCounter) Top(_ context.Context, limit int64) ([]SearchCount, error) {
	out := []SearchCount{}
	for text, n := range m.counts {
		out = append(out, SearchCount{SearchText: text, Count: n})
	}
	return out, nil
}

func TestTopSearchRecordFolds(t *testing.T) {
	c := &memCounter{counts: map[string]int64{}}
	svc := NewTopSearchService(context.Background(), c)
	svc.Record("  Go Tutorial ")
	svc.Record("go tutorial")
	svc.Record("   ")
	assert.Equal(t, map[string]int64{"go tutorial": 2}, c.counts)

	_, err := svc.TopSearches(0)
	assert.ErrorIs(t, err, errno.ParamErr)
	top, err := NewTopSearchService(context.Background(), nil).TopSearches(5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
