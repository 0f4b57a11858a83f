package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/relation/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/paginate"
)

func ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	subscribed, err := service.NewSubscriptionService(ctx, base.App.Store).ToggleSubscription(jwt.Viewer(c), c.Param("channelId"))
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, utils.H{"isSubscribed": subscribed})
}

func ChannelSubscribers(ctx context.Context, c *app.RequestContext) {
	list(ctx, c, base.App.Views.ChannelSubscribers, c.Param("channelId"))
}

func SubscribedChannels(ctx context.Context, c *app.RequestContext) {
	list(ctx, c, base.App.Views.SubscribedChannels, c.Param("subscriberId"))
}

func list(ctx context.Context, c *app.RequestContext, fetch func(context.Context, string, string, paginate.Request) (*paginate.Page, error), key string) {
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := fetch(ctx, jwt.Viewer(c), key, r)
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, page)
}
