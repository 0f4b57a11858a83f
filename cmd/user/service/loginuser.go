package service

import (
	"context"

	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type LoginRequest struct {
	Login    string `validate:"notblank"`
	Password string `validate:"required"`
}

type LoginUserService struct {
	ctx   context.Context
	store store.Store
}

func NewLoginUserService(ctx context.Context, s store.Store) *LoginUserService {
	return &LoginUserService{ctx: ctx, store: s}
}

// Login checks credentials given a handle or an email. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *LoginUserService) Login(req *LoginRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	login := utils.Fold(req.Login)
	users, err := s.store.Find(s.ctx, store.Users, store.Where(store.Or(
		store.Where(store.Eq("username", login)),
		store.Where(store.Eq("email", login)),
	)), &store.FindOptions{Limit: 1})
	if err != nil {
		return nil, errors.WithMessage(err, "find user")
	}
	if len(users) == 0 || !utils.VerifyPassword(req.Password, users[0].String("password")) {
		return nil, errno.AuthorizationFailedErr.WithMessage("Invalid user credentials")
	}
	return self(users[0]), nil
}

// SetRefreshToken records the fingerprint of the refresh token just issued;
// an empty token logs the user out.
func (s *LoginUserService) SetRefreshToken(userKey, token string) error {
	fp := ""
	if token != "" {
		fp = utils.HashToken(token)
	}
	return errors.WithMessage(s.store.Update(s.ctx, store.Users, userKey, store.Doc{"refresh_token": fp}), "store refresh token")
}

// CheckRefreshToken reports whether token is the one last issued to the user.
func (s *LoginUserService) CheckRefreshToken(userKey, token string) (bool, error) {
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return false, err
	}
	fp := u.String("refresh_token")
	return fp != "" && fp == utils.HashToken(token), nil
}
