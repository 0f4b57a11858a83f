package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

type UpdateImageService struct {
	ctx      context.Context
	store    store.Store
	uploader Uploader
}

func NewUpdateImageService(ctx context.Context, s store.Store, uploader Uploader) *UpdateImageService {
	return &UpdateImageService{ctx: ctx, store: s, uploader: uploader}
}

func (s *UpdateImageService) UpdateAvatar(userKey, localPath string) (store.Doc, error) {
	return s.replace(userKey, "avatar", localPath)
}

func (s *UpdateImageService) UpdateCover(userKey, localPath string) (store.Doc, error) {
	return s.replace(userKey, "cover_image", localPath)
}

func (s *UpdateImageService) DeleteCover(userKey string) (store.Doc, error) {
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return nil, err
	}
	old := u.String("cover_image")
	if old == "" {
		return nil, errno.InvalidOperationErr.WithMessage("no cover image to delete")
	}
	if err = s.store.Update(s.ctx, store.Users, userKey, store.Doc{"cover_image": ""}); err != nil {
		return nil, errors.WithMessage(err, "clear cover image")
	}
	s.removeObject(old)
	u["cover_image"] = ""
	return self(u), nil
}

// replace uploads the new image, points the user at it and then drops the
// previous object.
func (s *UpdateImageService) replace(userKey, field, localPath string) (store.Doc, error) {
	if localPath == "" {
		return nil, errno.ParamErr.WithMessagef("%s file is missing", field)
	}
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(s.ctx, constants.PictureBucket, localPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "upload %s", field)
	}
	if err = s.store.Update(s.ctx, store.Users, userKey, store.Doc{field: url}); err != nil {
		return nil, errors.WithMessagef(err, "update %s", field)
	}
	s.removeObject(u.String(field))
	u[field] = url
	return self(u), nil
}

func (s *UpdateImageService) removeObject(url string) {
	if url == "" {
		return
	}
	if err := s.uploader.Remove(s.ctx, constants.PictureBucket, url); err != nil {
		hlog.CtxWarnf(s.ctx, "remove old image %s: %v", url, err)
	}
}
