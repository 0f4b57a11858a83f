// Package visibility decides whether a viewer may see a video or a playlist.
// Each rule exists twice: as a predicate over a loaded record and as a store
// filter, and the two must agree.
package visibility

import (
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

const (
	Public  = "public"
	Private = "private"
)

var (
	Video    pipeline.Rule = videoRule{}
	Playlist pipeline.Rule = playlistRule{}
)

type videoRule struct{}

// Visible: not NSFW, and public or owned by the viewer. A video whose owner
// cannot be resolved is never visible.
func (videoRule) Visible(d store.Doc, viewer string) bool {
	owner, ok := d.Ref("owner")
	if !ok || d.Bool("is_nsfw") {
		return false
	}
	return d.Bool("is_public") || (viewer != "" && viewer == owner)
}

func (videoRule) Filter(viewer string) store.Filter {
	f := store.Where(store.Eq("is_nsfw", false))
	if viewer == "" {
		return f.And(store.Eq("is_public", true))
	}
	return f.And(store.Or(
		store.Where(store.Eq("is_public", true)),
		store.Where(store.Eq("owner", viewer)),
	))
}

type playlistRule struct{}

func (playlistRule) Visible(d store.Doc, viewer string) bool {
	if d.String("visibility") == Public {
		return true
	}
	owner, ok := d.Ref("owner")
	return ok && viewer != "" && viewer == owner
}

func (playlistRule) Filter(viewer string) store.Filter {
	if viewer == "" {
		return store.Where(store.Eq("visibility", Public))
	}
	return store.Where(store.Or(
		store.Where(store.Eq("visibility", Public)),
		store.Where(store.Eq("owner", viewer)),
	))
}
