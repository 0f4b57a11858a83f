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

func ListComment(ctx context.Context, c *app.RequestContext) {
	r, err := base.PageRequest(c, constants.DefaultCommentLimit)
	if err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	page, err := base.App.Views.VideoComments(ctx, jwt.Viewer(c), c.Param("videoId"), r)
	send(ctx, c, page, err)
}

func CreateComment(ctx context.Context, c *app.RequestContext) {
	var param CommentParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	doc, err := service.NewCommentService(ctx, base.App.Store).AddComment(&service.AddCommentRequest{
		Owner:     jwt.Viewer(c),
		VideoKey:  c.Param("videoId"),
		ParentKey: param.ParentComment,
		Content:   param.Content,
	})
	send(ctx, c, doc, err)
}

func UpdateComment(ctx context.Context, c *app.RequestContext) {
	var param CommentParam
	if err := base.BindAndValidate(c, &param); err != nil {
		base.SendResponse(c, err, nil)
		return
	}
	doc, err := service.NewCommentService(ctx, base.App.Store).UpdateComment(&service.UpdateCommentRequest{
		Owner:      jwt.Viewer(c),
		CommentKey: c.Param("commentId"),
		Content:    param.Content,
	})
	send(ctx, c, doc, err)
}

func DeleteComment(ctx context.Context, c *app.RequestContext) {
	err := service.NewCommentService(ctx, base.App.Store).DeleteComment(jwt.Viewer(c), c.Param("commentId"))
	send(ctx, c, store.Doc{}, err)
}
