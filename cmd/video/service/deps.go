package service

import (
	"context"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

type Uploader interface {
	Upload(ctx context.Context, bucket, localPath string) (string, error)
	Remove(ctx context.Context, bucket, url string) error
}

// Indexer keeps the search index in step with the videos collection.
type Indexer interface {
	IndexVideo(ctx context.Context, v store.Doc) error
	DeleteVideo(ctx context.Context, key string) error
}

// ownedVideo loads a video the caller must own.
func ownedVideo(ctx context.Context, s store.Store, owner, videoKey string) (store.Doc, error) {
	key, err := store.ParseKey(videoKey, "videoId")
	if err != nil {
		return nil, err
	}
	v, err := s.Get(ctx, store.Videos, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("Video not found")
		}
		return nil, err
	}
	if v.String("owner") != owner {
		return nil, errno.AuthorizationFailedErr.WithMessage("You cannot modify this video")
	}
	return v, nil
}

func ownedPlaylist(ctx context.Context, s store.Store, owner, playlistKey string) (store.Doc, error) {
	key, err := store.ParseKey(playlistKey, "playlistId")
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, store.Playlists, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("Playlist not found")
		}
		return nil, err
	}
	if p.String("owner") != owner {
		return nil, errno.AuthorizationFailedErr.WithMessage("You are not allowed to update this playlist")
	}
	return p, nil
}

// uploadTermsAccepted gates publishing and editing.
func uploadTermsAccepted(ctx context.Context, s store.Store, user string) error {
	u, err := s.Get(ctx, store.Users, user)
	if err != nil {
		if errno.IsNotFound(err) {
			return errno.NotFoundErr.WithMessage("user not found")
		}
		return err
	}
	if !u.Bool("upload_terms_accepted") {
		return errno.ParamErr.WithMessage("Please accept the Video upload terms and conditions")
	}
	return nil
}
