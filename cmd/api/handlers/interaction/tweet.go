package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/interaction/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

func CreateTweet(ctx context.Context, c *app.RequestContext) {
	var param TweetParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	t, err := service.NewTweetService(ctx, base.App.Store).CreateTweet(jwt.Viewer(c), param.Content)
	send(ctx, c, t, err)
}

func UserTweets(ctx context.Context, c *app.RequestContext) {
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := base.App.Views.UserTweets(ctx, jwt.Viewer(c), c.Param("userId"), r)
	send(ctx, c, page, err)
}

func UpdateTweet(ctx context.Context, c *app.RequestContext) {
	var param TweetParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	t, err := service.NewTweetService(ctx, base.App.Store).UpdateTweet(jwt.Viewer(c), c.Param("tweetId"), param.Content)
	send(ctx, c, t, err)
}

func DeleteTweet(ctx context.Context, c *app.RequestContext) {
	err := service.NewTweetService(ctx, base.App.Store).DeleteTweet(jwt.Viewer(c), c.Param("tweetId"))
	send(ctx, c, store.Doc{}, err)
}
