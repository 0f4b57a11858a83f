package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/video/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/view"
)

func ListVideos(ctx context.Context, c *app.RequestContext) {
	var param ListParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := base.App.Views.VideoListing(ctx, jwt.Viewer(c), view.ListingQuery{
		Text:     param.Query,
		Owner:    param.UserId,
		SortBy:   param.SortBy,
		SortDesc: param.SortType != "asc",
	}, r)
	if err == nil && param.Query != "" {
		service.NewTopSearchService(ctx, base.App.Searches).Record(param.Query)
	}
	send(ctx, c, page, err)
}

func GetVideo(ctx context.Context, c *app.RequestContext) {
	v, err := base.App.Views.VideoDetail(ctx, jwt.Viewer(c), c.Param("videoId"))
	send(ctx, c, v, err)
}

func VideoSuggestions(ctx context.Context, c *app.RequestContext) {
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := base.App.Views.VideoSuggestions(ctx, jwt.Viewer(c), c.Param("videoId"), r)
	send(ctx, c, page, err)
}

func VideoLikeData(ctx context.Context, c *app.RequestContext) {
	d, err := base.App.Views.VideoReactionSummary(ctx, jwt.Viewer(c), c.Param("videoId"))
	send(ctx, c, d, err)
}

func PublishVideo(ctx context.Context, c *app.RequestContext) {
	var param PublishParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	video, cleanVideo, err := base.SaveUpload(c, "video")
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	defer cleanVideo()
	thumb, cleanThumb, err := base.SaveUpload(c, "thumbnail")
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	defer cleanThumb()

	v, err := service.NewVideoUploadService(ctx, base.App.Store, base.App.Uploader, base.App.Index).Publish(&service.PublishRequest{
		Owner:         jwt.Viewer(c),
		Title:         param.Title,
		Description:   param.Description,
		VideoPath:     video,
		ThumbnailPath: thumb,
		IsPublic:      param.IsPublic,
	})
	send(ctx, c, v, err)
}

func UpdateVideo(ctx context.Context, c *app.RequestContext) {
	var param UpdateVideoParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	thumb, cleanup, err := base.SaveUpload(c, "thumbnail")
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	defer cleanup()

	v, err := service.NewVideoManageService(ctx, base.App.Store, base.App.Uploader, base.App.Index).UpdateVideo(jwt.Viewer(c), c.Param("videoId"), &service.UpdateVideoRequest{
		Title:         param.Title,
		Description:   param.Description,
		ThumbnailPath: thumb,
		IsPublic:      param.IsPublic,
		IsNSFW:        param.IsNSFW,
	})
	send(ctx, c, v, err)
}

func DeleteVideo(ctx context.Context, c *app.RequestContext) {
	err := service.NewVideoManageService(ctx, base.App.Store, base.App.Uploader, base.App.Index).DeleteVideo(jwt.Viewer(c), c.Param("videoId"))
	send(ctx, c, store.Doc{}, err)
}

func UpdateVideoPlaylists(ctx context.Context, c *app.RequestContext) {
	var param VideoPlaylistsParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	err := service.NewPlaylistService(ctx, base.App.Store).UpdateVideoPlaylists(jwt.Viewer(c), c.Param("videoId"), param.AddToPlaylistIds, param.RemoveFromPlaylistIds)
	send(ctx, c, store.Doc{}, err)
}
