package view

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/visibility"
)

// PlaylistView is a playlist with one page of its videos in playlist order.
type PlaylistView struct {
	Playlist store.Doc      `json:"playlist"`
	Videos   *paginate.Page `json:"videos"`
}

const sortIndex = "sortIndex"

// PlaylistContents returns a playlist and pages its videos by their position
// in the playlist. Hidden or deleted videos are left out.
func (e *Engine) PlaylistContents(ctx context.Context, viewer, playlistKey string, r paginate.Request) (_ *PlaylistView, err error) {
	ctx, done := trace(ctx, "playlist_contents")
	defer done(&err)

	key, err := store.ParseKey(playlistKey, "playlist id")
	if err != nil {
		return nil, err
	}
	pl, err := e.one(ctx, pipeline.Pipeline{
		Name: "playlist",
		From: store.Playlists,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq(store.FieldID, key))},
			withOwner(false),
		),
	}, viewer, "playlist")
	if err != nil {
		return nil, err
	}
	if !visibility.Playlist.Visible(pl, viewer) {
		return nil, errno.AuthorizationFailedErr.WithMessage("playlist is private")
	}

	order := pl.Strings("videos")
	videos, err := e.page(ctx, pipeline.Pipeline{
		Name: "playlist_videos",
		From: store.Videos,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.In(store.FieldID, order))},
			visibleVideos,
			pipeline.AddFields{Fields: []pipeline.Field{{Name: sortIndex, Fn: pipeline.IndexIn(store.FieldID, order)}}},
			pipeline.Sort{Keys: []store.SortKey{{Field: sortIndex}}},
			pipeline.Project{Exclude: []string{sortIndex}},
		),
	}, viewer, r)
	if err != nil {
		return nil, err
	}
	pl["totalVideos"] = int64(len(order))
	delete(pl, "videos")
	return &PlaylistView{Playlist: pl, Videos: videos}, nil
}

// Playlist filters accepted by UserPlaylists.
const (
	PlaylistsPublic  = visibility.Public
	PlaylistsPrivate = visibility.Private
	PlaylistsAll     = "all"
)

// UserPlaylists pages a user's playlists, most recently updated first, each
// with its visible videos in playlist order. Non-owners only ever get the
// public ones whatever filter they ask for.
func (e *Engine) UserPlaylists(ctx context.Context, viewer, ownerKey, filter string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "user_playlists")
	defer done(&err)

	owner, err := store.ParseKey(ownerKey, "user id")
	if err != nil {
		return nil, err
	}
	match := store.Where(store.Eq("owner", owner))
	switch filter {
	case "", PlaylistsAll:
	case PlaylistsPublic, PlaylistsPrivate:
		match = match.And(store.Eq("visibility", filter))
	default:
		return nil, errno.ParamErr.WithMessagef("unknown playlist visibility %q", filter)
	}
	p := pipeline.Pipeline{
		Name: "user_playlists",
		From: store.Playlists,
		Stages: stages(
			pipeline.Match{Filter: match},
			pipeline.Guard{Rule: visibility.Playlist},
			pipeline.Sort{Keys: []store.SortKey{{Field: store.FieldUpdatedAt, Desc: true}}},
			pipeline.AddFields{Fields: []pipeline.Field{{Name: "totalVideos", Fn: sizeOfKeys("videos")}}},
			pipeline.Lookup{
				From:          store.Videos,
				LocalField:    "videos",
				ForeignField:  store.FieldID,
				As:            "videos",
				Pipeline:      visibleVideos,
				PreserveOrder: true,
			},
		),
	}
	return e.page(ctx, p, viewer, r)
}

// PlaylistOptions lists the viewer's playlists by title, flagging the ones
// that already hold the video.
func (e *Engine) PlaylistOptions(ctx context.Context, viewer, videoKey string) (_ []store.Doc, err error) {
	ctx, done := trace(ctx, "playlist_options")
	defer done(&err)

	if err = requireViewer(viewer); err != nil {
		return nil, err
	}
	key, err := store.ParseKey(videoKey, "video id")
	if err != nil {
		return nil, err
	}
	docs, err := e.x.Run(ctx, pipeline.Pipeline{
		Name: "playlist_options",
		From: store.Playlists,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq("owner", viewer))},
			pipeline.Sort{Keys: []store.SortKey{{Field: "title"}}},
			pipeline.AddFields{Fields: []pipeline.Field{{Name: "isPresent", Fn: pipeline.Contains("videos", key)}}},
			pipeline.Project{Include: []string{"title", "visibility", "isPresent"}},
		),
	}, pipeline.Env{Viewer: viewer})
	if err != nil {
		hlog.CtxErrorf(ctx, "playlist options for %s failed: %v", viewer, err)
		return nil, err
	}
	return docs, nil
}

func sizeOfKeys(field string) pipeline.Deriver {
	return func(d store.Doc, _ pipeline.Env) interface{} {
		return int64(len(d.Strings(field)))
	}
}
