package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
)

type CommentParam struct {
	Content       string `form:"content" json:"content"`
	ParentComment string `form:"parentComment" json:"parentComment"`
}

type LikeParam struct {
	Kind string `form:"kind" json:"kind"`
}

type LikeListParam struct {
	Kind string `query:"kind"`
}

type TweetParam struct {
	Content string `form:"content" json:"content"`
}

func send(ctx context.Context, c *app.RequestContext, data interface{}, err error) {
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, data)
}
