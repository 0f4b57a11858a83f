package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/user/service"
)

func Register(ctx context.Context, c *app.RequestContext) {
	var param RegisterParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	avatar, cleanAvatar, err := base.SaveUpload(c, "avatar")
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	defer cleanAvatar()
	cover, cleanCover, err := base.SaveUpload(c, "coverImage")
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	defer cleanCover()

	u, err := service.NewCreateUserService(ctx, base.App.Store, base.App.Uploader).Register(&service.RegisterRequest{
		Username:   param.Username,
		Email:      param.Email,
		Fullname:   param.Fullname,
		Password:   param.Password,
		AvatarPath: avatar,
		CoverPath:  cover,
	})
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, u)
}
