package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type PublishRequest struct {
	Owner       string `validate:"required"`
	Title       string `validate:"notblank,max=255"`
	Description string `validate:"notblank"`
	VideoPath   string `validate:"required"`
	// ThumbnailPath is optional; the first frame is used when empty.
	ThumbnailPath string
	IsPublic      *bool
}

var (
	probeDuration = utils.ProbeDuration
	firstFrame    = utils.GetVideoThumbnail
)

type VideoUploadService struct {
	ctx      context.Context
	store    store.Store
	uploader Uploader
	index    Indexer
}

// NewVideoUploadService creates the service. index may be nil.
func NewVideoUploadService(ctx context.Context, s store.Store, uploader Uploader, index Indexer) *VideoUploadService {
	return &VideoUploadService{ctx: ctx, store: s, uploader: uploader, index: index}
}

func (service *VideoUploadService) Publish(req *PublishRequest) (store.Doc, error) {
	span, ctx := opentracing.StartSpanFromContext(service.ctx, "video.publish")
	defer span.Finish()

	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if err := uploadTermsAccepted(ctx, service.store, req.Owner); err != nil {
		return nil, err
	}

	// 1. 获取视频时长
	duration, err := probeDuration(req.VideoPath)
	if err != nil {
		return nil, errno.ParamErr.WithMessage("Video file could not be read")
	}

	// 2. 生成封面
	thumbnail := req.ThumbnailPath
	if thumbnail == "" {
		dir, err := os.MkdirTemp("", "thumb-")
		if err != nil {
			return nil, errors.WithMessage(err, "Failed to create temp dir")
		}
		defer os.RemoveAll(dir)
		if thumbnail, err = firstFrame(req.VideoPath, filepath.Join(dir, "out")); err != nil {
			return nil, err
		}
	}

	// 3. 上传到对象存储
	videoURL, err := service.uploader.Upload(ctx, constants.VideoBucket, req.VideoPath)
	if err != nil {
		return nil, errors.WithMessage(err, "Video Upload Failed")
	}
	thumbURL, err := service.uploader.Upload(ctx, constants.PictureBucket, thumbnail)
	if err != nil {
		return nil, errors.WithMessage(err, "Thumbnail Upload Failed")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	v := store.Doc{
		store.FieldID: store.NewKey(),
		"owner":       req.Owner,
		"title":       req.Title,
		"description": req.Description,
		"video_file":  videoURL,
		"thumbnail":   thumbURL,
		"duration":    duration,
		"views":       int64(0),
		"is_public":   isPublic,
		"is_nsfw":     false,
	}
	if err = service.store.Insert(ctx, store.Videos, v); err != nil {
		return nil, errors.WithMessage(err, "create video")
	}
	if v, err = service.store.Get(ctx, store.Videos, v.Key()); err != nil {
		return nil, err
	}

	// 4. 写入搜索索引
	if service.index != nil {
		if err := service.index.IndexVideo(ctx, v); err != nil {
			hlog.CtxErrorf(ctx, "index video %s: %v", v.Key(), err)
		}
	}
	hlog.CtxInfof(ctx, "user %s published video %s", req.Owner, v.Key())
	return v, nil
}
