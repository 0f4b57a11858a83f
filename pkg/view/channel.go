package view

import (
	"context"
	"strings"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

// ChannelProfile is the public face of a user looked up by handle, with
// subscription counts relative to the viewer. Email is not part of it.
func (e *Engine) ChannelProfile(ctx context.Context, viewer, username string) (_ store.Doc, err error) {
	ctx, done := trace(ctx, "channel_profile")
	defer done(&err)

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errno.ParamErr.WithMessage("username is missing")
	}
	p := pipeline.Pipeline{
		Name: "channel_profile",
		From: store.Users,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq("username", username))},
			channelStats(),
			pipeline.Lookup{
				From:         store.Subscriptions,
				LocalField:   store.FieldID,
				ForeignField: "subscriber",
				As:           "subscribedTo",
				Pipeline:     []pipeline.Stage{pipeline.Project{Include: []string{"channel"}}},
			},
			pipeline.AddFields{Fields: []pipeline.Field{
				{Name: "subscribedToCount", Fn: pipeline.Size("subscribedTo")},
			}},
			pipeline.Project{Include: []string{
				"username", "fullname", "avatar", "cover_image", store.FieldCreatedAt,
				"subscriberCount", "subscribedToCount", "isSubscribed",
			}},
		),
	}
	return e.one(ctx, p, viewer, "channel")
}
