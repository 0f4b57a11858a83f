package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

type TweetService struct {
	ctx   context.Context
	store store.Store
}

func NewTweetService(ctx context.Context, s store.Store) *TweetService {
	return &TweetService{ctx: ctx, store: s}
}

func (service *TweetService) CreateTweet(owner, content string) (store.Doc, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("tweet content is required")
	}
	if err := validateContent(content, constants.MaxTweetLength); err != nil {
		return nil, err
	}
	t := store.Doc{store.FieldID: store.NewKey(), "owner": owner, "content": content}
	if err := service.store.Insert(service.ctx, store.Tweets, t); err != nil {
		return nil, errors.WithMessage(err, "create tweet")
	}
	return t, nil
}

func (service *TweetService) owned(owner, raw string) (store.Doc, error) {
	key, err := store.ParseKey(raw, "tweet id")
	if err != nil {
		return nil, err
	}
	t, err := service.store.Get(service.ctx, store.Tweets, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("tweet not found")
		}
		return nil, err
	}
	if t.String("owner") != owner {
		return nil, errno.AuthorizationFailedErr.WithMessage("only the owner can change this tweet")
	}
	return t, nil
}

func (service *TweetService) UpdateTweet(owner, tweetKey, content string) (store.Doc, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("tweet content is required")
	}
	if err := validateContent(content, constants.MaxTweetLength); err != nil {
		return nil, err
	}
	t, err := service.owned(owner, tweetKey)
	if err != nil {
		return nil, err
	}
	if err = service.store.Update(service.ctx, store.Tweets, t.Key(), store.Doc{"content": content}); err != nil {
		return nil, errors.WithMessage(err, "update tweet")
	}
	t["content"] = content
	return t, nil
}

// DeleteTweet removes the tweet and the reactions on it.
func (service *TweetService) DeleteTweet(owner, tweetKey string) error {
	t, err := service.owned(owner, tweetKey)
	if err != nil {
		return err
	}
	if err = service.store.Delete(service.ctx, store.Tweets, t.Key()); err != nil {
		return errors.WithMessage(err, "delete tweet")
	}
	_, err = NewReactionService(service.ctx, service.store, nil).RemoveAll(TargetTweet, []string{t.Key()})
	return err
}
