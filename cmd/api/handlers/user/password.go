package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/user/service"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

func UpdatePassword(ctx context.Context, c *app.RequestContext) {
	var param UpdatePasswordParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	err := service.NewChangePasswordService(ctx, base.App.Store).ChangePassword(jwt.Viewer(c), &service.ChangePasswordRequest{
		OldPassword:     param.OldPassword,
		NewPassword:     param.NewPassword,
		ConfirmPassword: param.ConfirmPassword,
	})
	send(ctx, c, store.Doc{}, err)
}

func ForgotPassword(ctx context.Context, c *app.RequestContext) {
	var param ForgotPasswordParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	if param.Email == "" {
		base.SendResponse(c, errno.ParamErr.WithMessage("email is required"), nil)
		return
	}
	if base.App.Mailer == nil {
		base.SendResponse(c, errno.ServiceErr.WithMessage("email is not available"), nil)
		return
	}
	err := service.NewForgotPasswordService(ctx, base.App.Store, base.App.Mailer, base.App.ResetURL).ForgotPassword(param.Email)
	send(ctx, c, store.Doc{}, err)
}

func ResetPassword(ctx context.Context, c *app.RequestContext) {
	var param ResetPasswordParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	err := service.NewResetPasswordService(ctx, base.App.Store).ResetPassword(c.Param("token"), param.Password)
	send(ctx, c, store.Doc{}, err)
}
