package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
)

func newFixture(t *testing.T) (context.Context, *memstore.Store, string) {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	video := store.NewKey()
	require.NoError(t, s.Insert(ctx, store.Videos, store.Doc{
		store.FieldID: video, "owner": store.NewKey(), "is_public": true, "is_nsfw": false,
	}))
	return ctx, s, video
}

func reactionsOf(t *testing.T, s *memstore.Store, actor, target string) []store.Doc {
	t.Helper()
	docs, err := s.Find(context.Background(), store.Reactions,
		store.Where(store.Eq("actor", actor), store.Eq("target", target)), nil)
	require.NoError(t, err)
	return docs
}

func TestLikeThenRemove(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewReactionService(ctx, s, nil)

	res, err := svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: Like})
	require.NoError(t, err)
	assert.Equal(t, Like, res.Kind)

	res, err = svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: Remove})
	require.NoError(t, err)
	assert.Equal(t, Removed, res.Kind)
	assert.Equal(t, Like, res.Previous)
	assert.Empty(t, reactionsOf(t, s, "a", "video:"+video))
}

func TestToggleIsIdempotentAndSwitches(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewReactionService(ctx, s, nil)
	req := func(kind string) *ReactionRequest {
		return &ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: kind}
	}

	for _, kind := range []string{Like, Like, Dislike} {
		_, err := svc.ApplyReaction(req(kind))
		require.NoError(t, err)
	}
	docs := reactionsOf(t, s, "a", "video:"+video)
	require.Len(t, docs, 1)
	assert.Equal(t, Dislike, docs[0]["kind"])
	assert.Equal(t, video, docs[0]["video"])
}

func TestApplyReactionErrors(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewReactionService(ctx, s, nil)

	_, err := svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: Remove})
	assert.ErrorIs(t, err, errno.InvalidOperationErr)
	assert.ErrorIs(t, err, errno.ParamErr)

	_, err = svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetComment, TargetKey: store.NewKey(), Desired: Like})
	assert.ErrorIs(t, err, errno.NotFoundErr)

	_, err = svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: "42", Desired: Like})
	assert.ErrorIs(t, err, errno.ParamErr)

	_, err = svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: "playlist", TargetKey: video, Desired: Like})
	assert.ErrorIs(t, err, errno.ParamErr)

	_, err = svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: "love"})
	assert.ErrorIs(t, err, errno.ParamErr)
}

// Any sequence of toggles leaves at most one record, holding the last
// non-remove kind unless the last applicable call removed it.
func TestReactionUniquenessOverSequences(t *testing.T) {
	sequences := [][]string{
		{Like},
		{Like, Remove},
		{Like, Dislike, Like},
		{Dislike, Remove, Remove, Like},
		{Remove, Dislike, Dislike},
		{Like, Remove, Dislike, Remove},
	}
	for _, seq := range sequences {
		ctx, s, video := newFixture(t)
		svc := NewReactionService(ctx, s, nil)
		want := ""
		for _, kind := range seq {
			_, err := svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: kind})
			if kind == Remove {
				if want == "" {
					assert.ErrorIs(t, err, errno.InvalidOperationErr)
				}
				want = ""
				continue
			}
			require.NoError(t, err)
			want = kind
		}
		docs := reactionsOf(t, s, "a", "video:"+video)
		if want == "" {
			assert.Empty(t, docs, "%v", seq)
		} else {
			require.Len(t, docs, 1, "%v", seq)
			assert.Equal(t, want, docs[0]["kind"], "%v", seq)
		}
	}
}

func TestConcurrentTogglesKeepOneRecord(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewReactionService(ctx, s, nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		kind := Like
		if i%2 == 1 {
			kind = Dislike
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: kind})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, reactionsOf(t, s, "a", "video:"+video), 1)
}

type countingLocker struct {
	mu    sync.Mutex
	names []string
}

func (l *countingLocker) Lock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	l.names = append(l.names, name)
	return l.mu.Unlock, nil
}

func TestLockerSerialisesPair(t *testing.T) {
	ctx, s, video := newFixture(t)
	locker := &countingLocker{}
	svc := NewReactionService(ctx, s, locker)

	_, err := svc.ApplyReaction(&ReactionRequest{Actor: "a", TargetKind: TargetVideo, TargetKey: video, Desired: Like})
	require.NoError(t, err)
	assert.Equal(t, []string{"reaction:a:video:" + video}, locker.names)
}
