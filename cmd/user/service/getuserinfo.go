package service

import (
	"context"

	"vidtube.com/pkg/store"
)

type GetUserInfoService struct {
	ctx   context.Context
	store store.Store
}

func NewGetUserInfoService(ctx context.Context, s store.Store) *GetUserInfoService {
	return &GetUserInfoService{ctx: ctx, store: s}
}

func (s *GetUserInfoService) CurrentUser(userKey string) (store.Doc, error) {
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return nil, err
	}
	return self(u), nil
}
