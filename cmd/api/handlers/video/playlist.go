package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/video/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

func (p PlaylistParam) request() *service.PlaylistRequest {
	return &service.PlaylistRequest{Title: p.Title, Description: p.Description, Visibility: p.Visibility, Videos: p.Videos}
}

func CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	var param PlaylistParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	p, err := service.NewPlaylistService(ctx, base.App.Store).CreatePlaylist(jwt.Viewer(c), param.request())
	send(ctx, c, p, err)
}

func UpdatePlaylist(ctx context.Context, c *app.RequestContext) {
	var param PlaylistParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	viewer := jwt.Viewer(c)
	if _, err := service.NewPlaylistService(ctx, base.App.Store).UpdatePlaylist(viewer, c.Param("playlistId"), param.request()); err != nil {
		base.Fail(ctx, c, err)
		return
	}
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	pv, err := base.App.Views.PlaylistContents(ctx, viewer, c.Param("playlistId"), r)
	send(ctx, c, pv, err)
}

func DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	err := service.NewPlaylistService(ctx, base.App.Store).DeletePlaylist(jwt.Viewer(c), c.Param("playlistId"))
	send(ctx, c, store.Doc{}, err)
}

func GetPlaylist(ctx context.Context, c *app.RequestContext) {
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	pv, err := base.App.Views.PlaylistContents(ctx, jwt.Viewer(c), c.Param("playlistId"), r)
	send(ctx, c, pv, err)
}

func ListPlaylists(ctx context.Context, c *app.RequestContext) {
	var param PlaylistListParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	viewer := jwt.Viewer(c)
	owner := param.UserId
	if owner == "" {
		owner = viewer
	}
	page, err := base.App.Views.UserPlaylists(ctx, viewer, owner, param.Visibility, r)
	send(ctx, c, page, err)
}

func PlaylistOptions(ctx context.Context, c *app.RequestContext) {
	docs, err := base.App.Views.PlaylistOptions(ctx, jwt.Viewer(c), c.Param("videoId"))
	send(ctx, c, docs, err)
}
