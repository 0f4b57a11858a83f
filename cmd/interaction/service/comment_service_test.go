package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/store/memstore"
)

func TestRepliesFlattenToRoot(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewCommentService(ctx, s)

	root, err := svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: " first "})
	require.NoError(t, err)
	assert.Equal(t, "first", root["content"])
	assert.Nil(t, root["parent_comment"])

	reply, err := svc.AddComment(&AddCommentRequest{Owner: "b", VideoKey: video, ParentKey: root.Key(), Content: "re"})
	require.NoError(t, err)
	assert.Equal(t, root.Key(), reply["parent_comment"])

	nested, err := svc.AddComment(&AddCommentRequest{Owner: "c", VideoKey: video, ParentKey: reply.Key(), Content: "re re"})
	require.NoError(t, err)
	assert.Equal(t, root.Key(), nested["parent_comment"])
}

func TestAddCommentValidation(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewCommentService(ctx, s)

	_, err := svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: "   "})
	assert.ErrorIs(t, err, errno.ParamErr)

	_, err = svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: strings.Repeat("x", 501)})
	assert.ErrorIs(t, err, errno.ParamErr)

	_, err = svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: store.NewKey(), Content: "hi"})
	assert.ErrorIs(t, err, errno.NotFoundErr)

	other := store.NewKey()
	require.NoError(t, s.Insert(ctx, store.Videos, store.Doc{store.FieldID: other, "owner": "z", "is_public": true, "is_nsfw": false}))
	c, err := svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: other, Content: "hi"})
	require.NoError(t, err)
	_, err = svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, ParentKey: c.Key(), Content: "hi"})
	assert.ErrorIs(t, err, errno.ParamErr)
}

func TestDeleteCommentCascades(t *testing.T) {
	ctx, s, video := newFixture(t)
	comments := NewCommentService(ctx, s)
	reactions := NewReactionService(ctx, s, nil)

	root, err := comments.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: "root"})
	require.NoError(t, err)
	reply, err := comments.AddComment(&AddCommentRequest{Owner: "b", VideoKey: video, ParentKey: root.Key(), Content: "reply"})
	require.NoError(t, err)
	keep, err := comments.AddComment(&AddCommentRequest{Owner: "b", VideoKey: video, Content: "other"})
	require.NoError(t, err)
	for _, target := range []string{root.Key(), reply.Key(), keep.Key()} {
		_, err = reactions.ApplyReaction(&ReactionRequest{Actor: "c", TargetKind: TargetComment, TargetKey: target, Desired: Like})
		require.NoError(t, err)
	}

	assert.ErrorIs(t, comments.DeleteComment("b", root.Key()), errno.AuthorizationFailedErr)
	require.NoError(t, comments.DeleteComment("a", root.Key()))

	left, err := s.Find(ctx, store.Comments, nil, nil)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.Key(), left[0].Key())

	n, err := s.Count(ctx, store.Reactions, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// flakyStore fails DeleteMany on one collection until healed.
type flakyStore struct {
	*memstore.Store
	broken store.Collection
}

func (f *flakyStore) DeleteMany(ctx context.Context, c store.Collection, filter store.Filter) (int64, error) {
	if c == f.broken {
		return 0, errno.ServiceErr.WithMessage("store unavailable")
	}
	return f.Store.DeleteMany(ctx, c, filter)
}

func TestDeleteCommentRetriesAfterFailure(t *testing.T) {
	ctx, mem, video := newFixture(t)
	s := &flakyStore{Store: mem, broken: store.Reactions}
	comments := NewCommentService(ctx, s)

	root, err := comments.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: "root"})
	require.NoError(t, err)
	reply, err := comments.AddComment(&AddCommentRequest{Owner: "b", VideoKey: video, ParentKey: root.Key(), Content: "reply"})
	require.NoError(t, err)
	_, err = NewReactionService(ctx, s, nil).ApplyReaction(&ReactionRequest{Actor: "c", TargetKind: TargetComment, TargetKey: reply.Key(), Desired: Like})
	require.NoError(t, err)

	require.Error(t, comments.DeleteComment("a", root.Key()))
	_, err = mem.Get(ctx, store.Comments, root.Key())
	require.NoError(t, err, "root survives a failed cascade")
	_, err = mem.Get(ctx, store.Comments, reply.Key())
	require.NoError(t, err)

	s.broken = ""
	require.NoError(t, comments.DeleteComment("a", root.Key()))
	n, err := mem.Count(ctx, store.Comments, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = mem.Count(ctx, store.Reactions, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateCommentOwnerOnly(t *testing.T) {
	ctx, s, video := newFixture(t)
	svc := NewCommentService(ctx, s)
	c, err := svc.AddComment(&AddCommentRequest{Owner: "a", VideoKey: video, Content: "v1"})
	require.NoError(t, err)

	_, err = svc.UpdateComment(&UpdateCommentRequest{Owner: "b", CommentKey: c.Key(), Content: "v2"})
	assert.ErrorIs(t, err, errno.AuthorizationFailedErr)

	c, err = svc.UpdateComment(&UpdateCommentRequest{Owner: "a", CommentKey: c.Key(), Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", c["content"])
}

func TestTweets(t *testing.T) {
	ctx, s, _ := newFixture(t)
	tweets := NewTweetService(ctx, s)

	_, err := tweets.CreateTweet("a", strings.Repeat("x", 281))
	assert.ErrorIs(t, err, errno.ParamErr)

	tw, err := tweets.CreateTweet("a", "hello")
	require.NoError(t, err)
	_, err = NewReactionService(ctx, s, nil).ApplyReaction(&ReactionRequest{Actor: "b", TargetKind: TargetTweet, TargetKey: tw.Key(), Desired: Like})
	require.NoError(t, err)

	assert.ErrorIs(t, tweets.DeleteTweet("b", tw.Key()), errno.AuthorizationFailedErr)
	require.NoError(t, tweets.DeleteTweet("a", tw.Key()))
	n, err := s.Count(ctx, store.Reactions, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
