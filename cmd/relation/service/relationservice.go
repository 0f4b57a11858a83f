package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

type SubscriptionService struct {
	ctx   context.Context
	store store.Store
}

func NewSubscriptionService(ctx context.Context, s store.Store) *SubscriptionService {
	return &SubscriptionService{ctx: ctx, store: s}
}

// ToggleSubscription subscribes the subscriber to channel, or unsubscribes
// if already subscribed, and reports the resulting state.
func (service *SubscriptionService) ToggleSubscription(subscriber, channelKey string) (subscribed bool, err error) {
	channel, err := store.ParseKey(channelKey, "channelId")
	if err != nil {
		return false, err
	}
	if subscriber == channel {
		return false, errno.ParamErr.WithMessage("You cannot subscribe to your own channel")
	}
	if _, err = service.store.Get(service.ctx, store.Users, channel); err != nil {
		if errno.IsNotFound(err) {
			return false, errno.NotFoundErr.WithMessage("Channel not found")
		}
		return false, err
	}

	filter := store.Where(store.Eq("subscriber", subscriber), store.Eq("channel", channel))
	n, err := service.store.DeleteMany(service.ctx, store.Subscriptions, filter)
	if err != nil {
		return false, errors.WithMessage(err, "unsubscribe")
	}
	if n > 0 {
		hlog.CtxInfof(service.ctx, "%s unsubscribed from %s", subscriber, channel)
		return false, nil
	}

	err = service.store.Insert(service.ctx, store.Subscriptions, store.Doc{
		store.FieldID: store.NewKey(),
		"subscriber":  subscriber,
		"channel":     channel,
	})
	// a concurrent toggle got there first; the pair exists either way
	if err != nil && !errno.IsConflict(err) {
		return false, errors.WithMessage(err, "subscribe")
	}
	return true, nil
}
