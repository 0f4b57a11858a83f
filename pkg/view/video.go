package view

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/visibility"
)

var searchFields = []string{"title", "description"}

// Sortable video fields.
var videoSorts = map[string]bool{
	store.FieldCreatedAt: true,
	"views":              true,
	"duration":           true,
	"title":              true,
}

const rank = "rank"

type ListingQuery struct {
	Text     string
	Owner    string
	SortBy   string
	SortDesc bool
}

// VideoListing pages visible videos, optionally narrowed to a search query
// and an owner. Search results keep their relevance order unless SortBy is
// given; otherwise the newest come first.
func (e *Engine) VideoListing(ctx context.Context, viewer string, q ListingQuery, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "video_listing")
	defer done(&err)

	var match store.Filter
	if q.Owner != "" {
		owner, err := store.ParseKey(q.Owner, "owner id")
		if err != nil {
			return nil, err
		}
		match = match.And(store.Eq("owner", owner))
	}
	if q.SortBy != "" && !videoSorts[q.SortBy] {
		return nil, errno.ParamErr.WithMessagef("cannot sort by %q", q.SortBy)
	}

	var ranked []string
	if text := strings.TrimSpace(q.Text); text != "" {
		if ranked, err = e.seed(ctx, text); err != nil {
			return nil, err
		}
		match = match.And(store.In(store.FieldID, ranked))
	}

	order := []pipeline.Stage{newestFirst}
	switch {
	case q.SortBy != "":
		order = []pipeline.Stage{pipeline.Sort{Keys: []store.SortKey{{Field: q.SortBy, Desc: q.SortDesc}}}}
	case ranked != nil:
		order = []pipeline.Stage{
			pipeline.AddFields{Fields: []pipeline.Field{{Name: rank, Fn: pipeline.IndexIn(store.FieldID, ranked)}}},
			pipeline.Sort{Keys: []store.SortKey{{Field: rank}}},
			pipeline.Project{Exclude: []string{rank}},
		}
	}

	p := pipeline.Pipeline{
		Name: "video_listing",
		From: store.Videos,
		Stages: stages(
			pipeline.Match{Filter: match},
			pipeline.Guard{Rule: visibility.Video},
			order,
			withOwner(false),
		),
	}
	return e.page(ctx, p, viewer, r)
}

func (e *Engine) seed(ctx context.Context, text string) ([]string, error) {
	if e.search == nil {
		return nil, errno.ServiceErr.WithMessage("search is not available")
	}
	keys, err := e.search.Search(ctx, text, searchFields, constants.SearchSeedLimit)
	if err != nil {
		hlog.CtxErrorf(ctx, "search %q failed: %v", text, err)
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// VideoSuggestions pages videos to watch next: the same channel's other
// uploads plus search matches on the video's title and description, most
// viewed first.
func (e *Engine) VideoSuggestions(ctx context.Context, viewer, videoKey string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "video_suggestions")
	defer done(&err)

	v, err := e.rootVideo(ctx, viewer, videoKey)
	if err != nil {
		return nil, err
	}
	owner, _ := v.Ref("owner")
	related := store.Where(store.Eq("owner", owner))
	if e.search != nil {
		keys, err := e.search.Search(ctx, v.String("title")+" "+v.String("description"), searchFields, constants.SuggestionLimit)
		if err != nil {
			// suggestions degrade to same-channel only
			hlog.CtxWarnf(ctx, "suggestion search for %s failed: %v", v.Key(), err)
		} else if len(keys) > 0 {
			related = store.Where(store.Or(related, store.Where(store.In(store.FieldID, keys))))
		}
	}

	p := pipeline.Pipeline{
		Name: "video_suggestions",
		From: store.Videos,
		Stages: stages(
			pipeline.Match{Filter: related.And(store.Ne(store.FieldID, v.Key()))},
			pipeline.Guard{Rule: visibility.Video},
			pipeline.Sort{Keys: []store.SortKey{{Field: "views", Desc: true}, {Field: store.FieldCreatedAt, Desc: true}}},
			withOwner(false),
		),
	}
	return e.page(ctx, p, viewer, r)
}

// VideoDetail is a single video with its owner's channel stats.
func (e *Engine) VideoDetail(ctx context.Context, viewer, videoKey string) (_ store.Doc, err error) {
	ctx, done := trace(ctx, "video_detail")
	defer done(&err)

	v, err := e.rootVideo(ctx, viewer, videoKey)
	if err != nil {
		return nil, err
	}
	owner := withOwner(true)
	owner.Pipeline = stages(
		channelStats(),
		pipeline.Project{Include: []string{"username", "fullname", "avatar", "subscriberCount", "isSubscribed"}},
	)
	return e.one(ctx, pipeline.Pipeline{
		Name: "video_detail",
		From: store.Videos,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq(store.FieldID, v.Key()))},
			owner,
		),
	}, viewer, "video")
}
