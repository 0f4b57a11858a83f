package view

import (
	"context"

	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

// replies is one level of the thread: direct children oldest first, each
// with its owner and reaction counts.
var replies = pipeline.Lookup{
	From:         store.Comments,
	LocalField:   store.FieldID,
	ForeignField: "parent_comment",
	As:           "replies",
	Pipeline: stages(
		oldestFirst,
		withOwner(false),
		reactionCounts("comment"),
	),
}

func commentsPipeline(videoKey string) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name: "video_comments",
		From: store.Comments,
		Stages: stages(
			pipeline.Match{Filter: store.Where(
				store.Eq("video", videoKey),
				store.Eq("parent_comment", nil),
			)},
			newestFirst,
			withOwner(false),
			reactionCounts("comment"),
			replies,
			pipeline.AddFields{Fields: []pipeline.Field{
				{Name: "totalRepliesCount", Fn: pipeline.Size("replies")},
			}},
		),
	}
}

// VideoComments pages the top-level comments of a video, newest first, with
// their direct replies attached.
func (e *Engine) VideoComments(ctx context.Context, viewer, videoKey string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "video_comments")
	defer done(&err)

	v, err := e.rootVideo(ctx, viewer, videoKey)
	if err != nil {
		return nil, err
	}
	return e.page(ctx, commentsPipeline(v.Key()), viewer, r)
}
