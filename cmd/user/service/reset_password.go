package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type ResetPasswordService struct {
	ctx   context.Context
	store store.Store
}

func NewResetPasswordService(ctx context.Context, s store.Store) *ResetPasswordService {
	return &ResetPasswordService{ctx: ctx, store: s}
}

// ResetPassword consumes a token issued by ForgotPassword.
func (s *ResetPasswordService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return errno.TokenInvalidErr
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}
	users, err := s.store.Find(s.ctx, store.Users, store.Where(store.Eq("reset_password_token", utils.HashToken(token))), &store.FindOptions{Limit: 1})
	if err != nil {
		return errors.WithMessage(err, "find reset token")
	}
	if len(users) == 0 || !now().Before(users[0].Time("reset_password_expire")) {
		return errno.TokenInvalidErr.WithMessage("Token is invalid or expired")
	}

	key := users[0].Key()
	err = setPassword(s.ctx, s.store, key, newPassword, store.Doc{
		"reset_password_token":  nil,
		"reset_password_expire": nil,
		// sessions opened before the reset are dropped
		"refresh_token": "",
	})
	if err != nil {
		return err
	}
	hlog.CtxInfof(s.ctx, "user %s reset password", key)
	return nil
}
