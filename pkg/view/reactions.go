package view

import (
	"context"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

func checkKind(kind string) error {
	if kind != Like && kind != Dislike {
		return errno.ParamErr.WithMessagef("unknown reaction kind %q", kind)
	}
	return nil
}

// ReactedVideos pages the videos the viewer reacted to with kind, most
// recent reaction first. Videos that are gone or hidden are skipped.
func (e *Engine) ReactedVideos(ctx context.Context, viewer, kind string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "reacted_videos")
	defer done(&err)

	if err = requireViewer(viewer); err != nil {
		return nil, err
	}
	if err = checkKind(kind); err != nil {
		return nil, err
	}
	p := pipeline.Pipeline{
		Name: "reacted_videos",
		From: store.Reactions,
		Stages: stages(
			pipeline.Match{Filter: store.Where(
				store.Eq("actor", viewer),
				store.Eq("kind", kind),
				store.Ne("video", nil),
			)},
			pipeline.LookupOne{
				From:         store.Videos,
				LocalField:   "video",
				ForeignField: store.FieldID,
				As:           "video",
				Pipeline:     visibleVideos,
				Required:     true,
			},
			newestFirst,
			pipeline.Project{Include: []string{"kind", "video", store.FieldCreatedAt}},
		),
	}
	return e.page(ctx, p, viewer, r)
}

// ReactedTweets is ReactedVideos for tweets.
func (e *Engine) ReactedTweets(ctx context.Context, viewer, kind string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "reacted_tweets")
	defer done(&err)

	if err = requireViewer(viewer); err != nil {
		return nil, err
	}
	if err = checkKind(kind); err != nil {
		return nil, err
	}
	p := pipeline.Pipeline{
		Name: "reacted_tweets",
		From: store.Reactions,
		Stages: stages(
			pipeline.Match{Filter: store.Where(
				store.Eq("actor", viewer),
				store.Eq("kind", kind),
				store.Ne("tweet", nil),
			)},
			pipeline.LookupOne{
				From:         store.Tweets,
				LocalField:   "tweet",
				ForeignField: store.FieldID,
				As:           "tweet",
				Pipeline:     []pipeline.Stage{withOwner(true)},
				Required:     true,
			},
			newestFirst,
			pipeline.Project{Include: []string{"kind", "tweet", store.FieldCreatedAt}},
		),
	}
	return e.page(ctx, p, viewer, r)
}

// VideoReactionSummary reports the like and dislike counts of a video and
// whether the viewer holds either.
func (e *Engine) VideoReactionSummary(ctx context.Context, viewer, videoKey string) (_ store.Doc, err error) {
	ctx, done := trace(ctx, "video_reactions")
	defer done(&err)

	v, err := e.rootVideo(ctx, viewer, videoKey)
	if err != nil {
		return nil, err
	}
	p := pipeline.Pipeline{
		Name: "video_reactions",
		From: store.Videos,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq(store.FieldID, v.Key()))},
			reactionCounts("video"),
			pipeline.Project{Include: []string{"totalLikesCount", "totalDislikesCount", "isLiked", "isDisliked"}},
		),
	}
	return e.one(ctx, p, viewer, "video")
}
