package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/user/service"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

func send(ctx context.Context, c *app.RequestContext, data interface{}, err error) {
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, data)
}

func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	u, err := service.NewGetUserInfoService(ctx, base.App.Store).CurrentUser(jwt.Viewer(c))
	send(ctx, c, u, err)
}

func UpdateProfile(ctx context.Context, c *app.RequestContext) {
	var param UpdateProfileParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	u, err := service.NewUpdateUserService(ctx, base.App.Store).UpdateProfile(jwt.Viewer(c), &service.UpdateProfileRequest{
		Fullname: param.Fullname,
		Email:    param.Email,
	})
	send(ctx, c, u, err)
}

func ToggleUploadTerms(ctx context.Context, c *app.RequestContext) {
	accepted, err := service.NewUpdateUserService(ctx, base.App.Store).ToggleUploadTerms(jwt.Viewer(c))
	send(ctx, c, utils.H{"uploadTermsAccepted": accepted}, err)
}

func image(field string, update func(s *service.UpdateImageService, user, path string) (store.Doc, error)) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		path, cleanup, err := base.SaveUpload(c, field)
		if err != nil {
			base.Fail(ctx, c, err)
			return
		}
		defer cleanup()
		u, err := update(service.NewUpdateImageService(ctx, base.App.Store, base.App.Uploader), jwt.Viewer(c), path)
		send(ctx, c, u, err)
	}
}

var (
	UpdateAvatar = image("avatar", (*service.UpdateImageService).UpdateAvatar)
	UpdateCover  = image("coverImage", (*service.UpdateImageService).UpdateCover)
)

func DeleteCover(ctx context.Context, c *app.RequestContext) {
	u, err := service.NewUpdateImageService(ctx, base.App.Store, base.App.Uploader).DeleteCover(jwt.Viewer(c))
	send(ctx, c, u, err)
}

func ChannelProfile(ctx context.Context, c *app.RequestContext) {
	u, err := base.App.Views.ChannelProfile(ctx, jwt.Viewer(c), c.Param("username"))
	send(ctx, c, u, err)
}
