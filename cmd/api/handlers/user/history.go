package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/user/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/store"
)

func WatchHistory(ctx context.Context, c *app.RequestContext) {
	r, err := base.PageRequest(c, constants.DefaultLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := base.App.Views.WatchHistory(ctx, jwt.Viewer(c), r)
	send(ctx, c, page, err)
}

func ClearWatchHistory(ctx context.Context, c *app.RequestContext) {
	err := service.NewWatchService(ctx, base.App.Store, base.App.Locker).ClearHistory(jwt.Viewer(c))
	send(ctx, c, store.Doc{}, err)
}

func RecordView(ctx context.Context, c *app.RequestContext) {
	err := service.NewWatchService(ctx, base.App.Store, base.App.Locker).RecordView(jwt.Viewer(c), c.Param("videoId"))
	send(ctx, c, store.Doc{}, err)
}
