package view

import (
	"context"

	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

// subscriptionList pages the subscriptions whose by field is key, replacing
// the other side with that user's public profile and channel stats.
func subscriptionList(name, by, other, key string) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name: name,
		From: store.Subscriptions,
		Stages: stages(
			pipeline.Match{Filter: store.Where(store.Eq(by, key))},
			pipeline.LookupOne{
				From:         store.Users,
				LocalField:   other,
				ForeignField: store.FieldID,
				As:           other,
				Pipeline: stages(
					channelStats(),
					pipeline.Project{Include: []string{"username", "fullname", "avatar", "subscriberCount", "isSubscribed"}},
				),
				Required: true,
			},
			newestFirst,
			pipeline.Project{Include: []string{other, store.FieldCreatedAt}},
		),
	}
}

// SubscribedChannels pages the channels a user follows.
func (e *Engine) SubscribedChannels(ctx context.Context, viewer, subscriberKey string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "subscribed_channels")
	defer done(&err)

	key, err := store.ParseKey(subscriberKey, "subscriber id")
	if err != nil {
		return nil, err
	}
	return e.page(ctx, subscriptionList("subscribed_channels", "subscriber", "channel", key), viewer, r)
}

// ChannelSubscribers pages the users following a channel.
func (e *Engine) ChannelSubscribers(ctx context.Context, viewer, channelKey string, r paginate.Request) (_ *paginate.Page, err error) {
	ctx, done := trace(ctx, "channel_subscribers")
	defer done(&err)

	key, err := store.ParseKey(channelKey, "channel id")
	if err != nil {
		return nil, err
	}
	return e.page(ctx, subscriptionList("channel_subscribers", "channel", "subscriber", key), viewer, r)
}
