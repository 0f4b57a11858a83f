package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
	"vidtube.com/pkg/visibility"
)

type PlaylistRequest struct {
	Title       string `validate:"notblank,max=255"`
	Description string
	Visibility  string `validate:"omitempty,oneof=public private"`
	Videos      []string
}

type PlaylistService struct {
	ctx   context.Context
	store store.Store
}

func NewPlaylistService(ctx context.Context, s store.Store) *PlaylistService {
	return &PlaylistService{ctx: ctx, store: s}
}

// parseKeys validates and de-duplicates video keys, keeping first occurrence
// order.
func parseKeys(raw []string, what string) ([]string, error) {
	keys := make([]string, 0, len(raw))
	for _, r := range raw {
		k, err := store.ParseKey(r, what)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return lo.Uniq(keys), nil
}

func (service *PlaylistService) CreatePlaylist(owner string, req *PlaylistRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	videos, err := parseKeys(req.Videos, "videoId")
	if err != nil {
		return nil, err
	}
	vis := req.Visibility
	if vis == "" {
		vis = visibility.Private
	}
	p := store.Doc{
		store.FieldID: store.NewKey(),
		"owner":       owner,
		"title":       req.Title,
		"description": req.Description,
		"visibility":  vis,
		"videos":      videos,
	}
	if err = service.store.Insert(service.ctx, store.Playlists, p); err != nil {
		return nil, errors.WithMessage(err, "create playlist")
	}
	return service.store.Get(service.ctx, store.Playlists, p.Key())
}

// UpdatePlaylist replaces title, description and visibility. Videos replaces
// the ordered list only when given.
func (service *PlaylistService) UpdatePlaylist(owner, playlistKey string, req *PlaylistRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	p, err := ownedPlaylist(service.ctx, service.store, owner, playlistKey)
	if err != nil {
		return nil, err
	}
	patch := store.Doc{"title": req.Title, "description": req.Description}
	if req.Visibility != "" {
		patch["visibility"] = req.Visibility
	}
	if req.Videos != nil {
		if patch["videos"], err = parseKeys(req.Videos, "videoId"); err != nil {
			return nil, err
		}
	}
	if err = service.store.Update(service.ctx, store.Playlists, p.Key(), patch); err != nil {
		return nil, errors.WithMessage(err, "update playlist")
	}
	return service.store.Get(service.ctx, store.Playlists, p.Key())
}

func (service *PlaylistService) DeletePlaylist(owner, playlistKey string) error {
	p, err := ownedPlaylist(service.ctx, service.store, owner, playlistKey)
	if err != nil {
		return err
	}
	return errors.WithMessage(service.store.Delete(service.ctx, store.Playlists, p.Key()), "delete playlist")
}

// UpdateVideoPlaylists adds the video to every playlist in add and pulls it
// from every playlist in remove. All playlists are checked for ownership
// before any is written.
func (service *PlaylistService) UpdateVideoPlaylists(owner, videoKey string, add, remove []string) error {
	video, err := store.ParseKey(videoKey, "videoId")
	if err != nil {
		return err
	}
	if _, err = service.store.Get(service.ctx, store.Videos, video); err != nil {
		if errno.IsNotFound(err) {
			return errno.NotFoundErr.WithMessage("Video not found")
		}
		return err
	}
	if add, err = parseKeys(add, "playlistId"); err != nil {
		return err
	}
	if remove, err = parseKeys(remove, "playlistId"); err != nil {
		return err
	}
	if both := lo.Intersect(add, remove); len(both) > 0 {
		return errno.ParamErr.WithMessagef("playlist %s is both added to and removed from", both[0])
	}

	playlists := make(map[string]store.Doc, len(add)+len(remove))
	for _, key := range append(append([]string{}, add...), remove...) {
		p, err := ownedPlaylist(service.ctx, service.store, owner, key)
		if err != nil {
			return err
		}
		playlists[key] = p
	}

	for _, key := range add {
		videos := playlists[key].Strings("videos")
		if lo.Contains(videos, video) {
			continue
		}
		if err = service.setVideos(key, append(videos, video)); err != nil {
			return err
		}
	}
	for _, key := range remove {
		videos := playlists[key].Strings("videos")
		if !lo.Contains(videos, video) {
			continue
		}
		if err = service.setVideos(key, lo.Without(videos, video)); err != nil {
			return err
		}
	}
	hlog.CtxInfof(service.ctx, "video %s: added to %d playlists, removed from %d", video, len(add), len(remove))
	return nil
}

func (service *PlaylistService) setVideos(playlist string, videos []string) error {
	return errors.WithMessagef(service.store.Update(service.ctx, store.Playlists, playlist, store.Doc{"videos": videos}), "update playlist %s", playlist)
}
