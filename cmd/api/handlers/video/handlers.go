package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
)

type ListParam struct {
	Query    string `query:"query"`
	UserId   string `query:"userId"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType" vd:"$=='' || $=='asc' || $=='desc'"`
}

type PublishParam struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	IsPublic    *bool  `form:"isPublic"`
}

type UpdateVideoParam struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	IsPublic    *bool  `form:"isPublic" json:"isPublic"`
	IsNSFW      *bool  `form:"isNSFW" json:"isNSFW"`
}

type VideoPlaylistsParam struct {
	AddToPlaylistIds      []string `json:"addToPlaylistIds"`
	RemoveFromPlaylistIds []string `json:"removeFromPlaylistIds"`
}

type PlaylistParam struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Videos      []string `json:"videos"`
}

type PlaylistListParam struct {
	UserId     string `query:"userId"`
	Visibility string `query:"visibility"`
}

type SuggestParam struct {
	Query string `query:"query"`
}

type TopSearchParam struct {
	Limit int64 `query:"limit"`
}

func send(ctx context.Context, c *app.RequestContext, data interface{}, err error) {
	if err != nil {
		base.Fail(ctx, c, err)
		return
	}
	base.SendResponse(c, nil, data)
}
