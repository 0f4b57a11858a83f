package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/user/service"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

// issue signs a token pair and records the refresh token's fingerprint.
func issue(ctx context.Context, userKey string) (utils.H, error) {
	access, refresh, err := base.App.Tokens.Issue(userKey)
	if err != nil {
		return nil, err
	}
	if err = service.NewLoginUserService(ctx, base.App.Store).SetRefreshToken(userKey, refresh); err != nil {
		return nil, err
	}
	return utils.H{"accessToken": access, "refreshToken": refresh}, nil
}

func LoginUser(ctx context.Context, c *app.RequestContext) {
	var param LoginParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	login := param.Username
	if login == "" {
		login = param.Email
	}
	u, err := service.NewLoginUserService(ctx, base.App.Store).Login(&service.LoginRequest{Login: login, Password: param.Password})
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	tokens, err := issue(ctx, u.Key())
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	tokens["user"] = u
	base.SendResponse(c, nil, tokens)
}

// RefreshSession trades a refresh token for a new pair. Each refresh token
// works once.
func RefreshSession(ctx context.Context, c *app.RequestContext) {
	var param RefreshParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	userKey, err := base.App.Tokens.RefreshOwner(param.RefreshToken)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	ok, err := service.NewLoginUserService(ctx, base.App.Store).CheckRefreshToken(userKey, param.RefreshToken)
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	if !ok {
		base.SendResponse(c, errno.TokenInvalidErr.WithMessage("Refresh token is expired or used"), nil)
		return
	}
	tokens, err := issue(ctx, userKey)
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, tokens)
}

func LogoutUser(ctx context.Context, c *app.RequestContext) {
	err := service.NewLoginUserService(ctx, base.App.Store).SetRefreshToken(jwt.Viewer(c), "")
	send(ctx, c, store.Doc{}, err)
}
