package view

import (
	"context"

	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

// UserTweets pages a user's tweets, newest first, with reaction counts.
func (e *Engine) UserTweets(ctx context.Context, viewer, ownerKey string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "user_tweets")
	defer done(&err)

	owner, err := store.ParseKey(ownerKey, "user id")
	if err != nil {
		return nil, err
	}
	p := pipeline.Pipeline{
		Name: "user_tweets",
		From: store.Tweets,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq("owner", owner))},
			newestFirst,
			withOwner(true),
			reactionCounts("tweet"),
		),
	}
	return e.page(ctx, p, viewer, r)
}
