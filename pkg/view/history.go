package view

import (
	"context"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

var historyStages = []pipeline.Stage{
	pipeline.LookupOne{
		From:         store.Videos,
		LocalField:   "video",
		ForeignField: store.FieldID,
		As:           "video",
		Pipeline:     visibleVideos,
		Required:     true,
	},
	pipeline.Sort{Keys: []store.SortKey{{Field: "watched_at", Desc: true}}},
}

// WatchHistory pages the viewer's own history, most recent first. The page
// is cut from the stored list before videos are joined, so entries whose
// video is gone or hidden leave a short page rather than being backfilled.
func (e *Engine) WatchHistory(ctx context.Context, viewer string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "watch_history")
	defer done(&err)

	if err = requireViewer(viewer); err != nil {
		return nil, err
	}
	u, err := e.store.Get(ctx, store.Users, viewer)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("user not found")
		}
		return nil, err
	}
	env := pipeline.Env{Viewer: viewer}
	return paginate.Embedded(ctx, u.Docs("watch_history"), r, func(ctx context.Context, entries []store.Doc) ([]store.Doc, error) {
		return e.x.Apply(ctx, entries, historyStages, env)
	})
}
