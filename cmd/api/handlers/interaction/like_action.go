package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/interaction/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/jwt"
)

// LikeAction sets the viewer's reaction on /likes/:targetKind/:targetId.
func LikeAction(ctx context.Context, c *app.RequestContext) {
	var param LikeParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	res, err := service.NewReactionService(ctx, base.App.Store, base.App.Locker).ApplyReaction(&service.ReactionRequest{
		Actor:      jwt.Viewer(c),
		TargetKind: c.Param("targetKind"),
		TargetKey:  c.Param("targetId"),
		Desired:    param.Kind,
	})
	send(ctx, c, res, err)
}

func LikedVideos(ctx context.Context, c *app.RequestContext) {
	reacted(ctx, c, service.TargetVideo)
}

func LikedTweets(ctx context.Context, c *app.RequestContext) {
	reacted(ctx, c, service.TargetTweet)
}

func reacted(ctx context.Context, c *app.RequestContext, target string) {
	var param LikeListParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	if param.Kind == "" {
		param.Kind = service.Like
	}
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	switch target {
	case service.TargetVideo:
		page, err := base.App.Views.ReactedVideos(ctx, jwt.Viewer(c), param.Kind, r)
		send(ctx, c, page, err)
	case service.TargetTweet:
		page, err := base.App.Views.ReactedTweets(ctx, jwt.Viewer(c), param.Kind, r)
		send(ctx, c, page, err)
	default:
		base.SendResponse(c, errno.ParamErr, nil)
	}
}
