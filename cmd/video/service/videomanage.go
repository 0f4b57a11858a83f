package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	interaction "vidtube.com/cmd/interaction/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type UpdateVideoRequest struct {
	Title         string `validate:"omitempty,notblank,max=255"`
	Description   string
	ThumbnailPath string
	IsPublic      *bool
	IsNSFW        *bool
}

type VideoManageService struct {
	ctx      context.Context
	store    store.Store
	uploader Uploader
	index    Indexer
}

func NewVideoManageService(ctx context.Context, s store.Store, uploader Uploader, index Indexer) *VideoManageService {
	return &VideoManageService{ctx: ctx, store: s, uploader: uploader, index: index}
}

func (service *VideoManageService) UpdateVideo(owner, videoKey string, req *UpdateVideoRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	v, err := ownedVideo(service.ctx, service.store, owner, videoKey)
	if err != nil {
		return nil, err
	}
	if err = uploadTermsAccepted(service.ctx, service.store, owner); err != nil {
		return nil, err
	}

	patch := store.Doc{}
	if req.Title != "" {
		patch["title"] = req.Title
	}
	if req.Description != "" {
		patch["description"] = req.Description
	}
	if req.IsPublic != nil {
		patch["is_public"] = *req.IsPublic
	}
	if req.IsNSFW != nil {
		patch["is_nsfw"] = *req.IsNSFW
	}
	oldThumb := ""
	if req.ThumbnailPath != "" {
		url, err := service.uploader.Upload(service.ctx, constants.PictureBucket, req.ThumbnailPath)
		if err != nil {
			return nil, errors.WithMessage(err, "Thumbnail Upload Failed")
		}
		patch["thumbnail"] = url
		oldThumb = v.String("thumbnail")
	}
	if len(patch) == 0 {
		return nil, errno.ParamErr.WithMessage("nothing to update")
	}
	if err = service.store.Update(service.ctx, store.Videos, v.Key(), patch); err != nil {
		return nil, errors.WithMessage(err, "update video")
	}
	if oldThumb != "" {
		if err := service.uploader.Remove(service.ctx, constants.PictureBucket, oldThumb); err != nil {
			hlog.CtxWarnf(service.ctx, "remove old thumbnail %s: %v", oldThumb, err)
		}
	}

	if v, err = service.store.Get(service.ctx, store.Videos, v.Key()); err != nil {
		return nil, err
	}
	if service.index != nil {
		if err := service.index.IndexVideo(service.ctx, v); err != nil {
			hlog.CtxErrorf(service.ctx, "reindex video %s: %v", v.Key(), err)
		}
	}
	return v, nil
}

// DeleteVideo removes the video with its comments and every reaction on the
// video or those comments. Playlists keep the dangling key; their views
// skip it.
func (service *VideoManageService) DeleteVideo(owner, videoKey string) error {
	v, err := ownedVideo(service.ctx, service.store, owner, videoKey)
	if err != nil {
		return err
	}
	if err = service.store.Delete(service.ctx, store.Videos, v.Key()); err != nil {
		return errors.WithMessage(err, "delete video")
	}

	comments, err := service.store.Find(service.ctx, store.Comments, store.Where(store.Eq("video", v.Key())), nil)
	if err != nil {
		return errors.WithMessage(err, "find comments")
	}
	commentKeys := make([]string, len(comments))
	for i, c := range comments {
		commentKeys[i] = c.Key()
	}
	if _, err = service.store.DeleteMany(service.ctx, store.Comments, store.Where(store.Eq("video", v.Key()))); err != nil {
		return errors.WithMessage(err, "delete comments")
	}
	reactions := interaction.NewReactionService(service.ctx, service.store, nil)
	if _, err = reactions.RemoveAll(interaction.TargetComment, commentKeys); err != nil {
		return err
	}
	if _, err = reactions.RemoveAll(interaction.TargetVideo, []string{v.Key()}); err != nil {
		return err
	}

	if service.index != nil {
		if err := service.index.DeleteVideo(service.ctx, v.Key()); err != nil {
			hlog.CtxErrorf(service.ctx, "unindex video %s: %v", v.Key(), err)
		}
	}
	for bucket, url := range map[string]string{constants.VideoBucket: v.String("video_file"), constants.PictureBucket: v.String("thumbnail")} {
		if url == "" {
			continue
		}
		if err := service.uploader.Remove(service.ctx, bucket, url); err != nil {
			hlog.CtxWarnf(service.ctx, "remove %s: %v", url, err)
		}
	}
	hlog.CtxInfof(service.ctx, "deleted video %s with %d comments", v.Key(), len(comments))
	return nil
}
