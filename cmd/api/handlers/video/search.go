package handlers

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/cmd/video/service"
	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
)

func SearchSuggestions(ctx context.Context, c *app.RequestContext) {
	var param SuggestParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	if strings.TrimSpace(param.Query) == "" {
		base.SendResponse(c, nil, []string{})
		return
	}
	if base.App.Suggest == nil {
		base.SendResponse(c, errno.ServiceErr.WithMessage("search is not available"), nil)
		return
	}
	titles, err := base.App.Suggest.Suggest(ctx, param.Query, constants.SuggestionLimit)
	send(ctx, c, titles, err)
}

func TopSearches(ctx context.Context, c *app.RequestContext) {
	var param TopSearchParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	if param.Limit == 0 {
		param.Limit = constants.DefaultLimit
	}
	top, err := service.NewTopSearchService(ctx, base.App.Searches).TopSearches(param.Limit)
	send(ctx, c, top, err)
}
