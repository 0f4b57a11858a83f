package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type ForgotPasswordService struct {
	ctx      context.Context
	store    store.Store
	mailer   Mailer
	resetURL string
}

func NewForgotPasswordService(ctx context.Context, s store.Store, mailer Mailer, resetURL string) *ForgotPasswordService {
	return &ForgotPasswordService{ctx: ctx, store: s, mailer: mailer, resetURL: resetURL}
}

// ForgotPassword issues a reset token and queues the email carrying it.
// Only the token's hash is stored. An unknown email is not an error, so the
// endpoint cannot be used to probe for accounts.
func (s *ForgotPasswordService) ForgotPassword(email string) error {
	users, err := s.store.Find(s.ctx, store.Users, store.Where(store.Eq("email", utils.Fold(email))), &store.FindOptions{Limit: 1})
	if err != nil {
		return errors.WithMessage(err, "find user by email")
	}
	if len(users) == 0 {
		hlog.CtxInfof(s.ctx, "password reset requested for unknown email")
		return nil
	}
	u := users[0]

	// 生成重置令牌
	token, err := utils.NewResetToken()
	if err != nil {
		return errors.WithMessage(err, "generate reset token")
	}
	err = s.store.Update(s.ctx, store.Users, u.Key(), store.Doc{
		"reset_password_token":  utils.HashToken(token),
		"reset_password_expire": now().Add(constants.ResetTokenTTL),
	})
	if err != nil {
		return errors.WithMessage(err, "store reset token")
	}

	if err = s.mailer.SendResetPassword(s.ctx, u.String("email"), u.String("fullname"), utils.ResetLink(s.resetURL, token)); err != nil {
		// a token nobody received must not stay valid
		_ = s.store.Update(s.ctx, store.Users, u.Key(), store.Doc{"reset_password_token": nil, "reset_password_expire": nil})
		return errors.WithMessage(err, "queue reset email")
	}
	return nil
}
