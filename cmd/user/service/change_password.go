package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type ChangePasswordRequest struct {
	OldPassword     string `validate:"required"`
	NewPassword     string `validate:"required"`
	ConfirmPassword string
}

type ChangePasswordService struct {
	ctx   context.Context
	store store.Store
}

func NewChangePasswordService(ctx context.Context, s store.Store) *ChangePasswordService {
	return &ChangePasswordService{ctx: ctx, store: s}
}

func (s *ChangePasswordService) ChangePassword(userKey string, req *ChangePasswordRequest) error {
	// 1. 参数验证
	if err := utils.Validate(req); err != nil {
		return err
	}
	if req.ConfirmPassword != "" && req.NewPassword != req.ConfirmPassword {
		return errno.ParamErr.WithMessage("new password and confirmation differ")
	}
	if req.OldPassword == req.NewPassword {
		return errno.ParamErr.WithMessage("new password must differ from the old one")
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		return err
	}

	// 2. 验证旧密码
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(req.OldPassword, u.String("password")) {
		return errno.ParamErr.WithMessage("Invalid old password")
	}

	// 3. 更新密码
	if err = setPassword(s.ctx, s.store, userKey, req.NewPassword, nil); err != nil {
		return err
	}
	hlog.CtxInfof(s.ctx, "user %s changed password", userKey)
	return nil
}

// setPassword stores a new hash and merges extra into the same update.
func setPassword(ctx context.Context, s store.Store, userKey, password string, extra store.Doc) error {
	hashed, err := utils.Crypt(password)
	if err != nil {
		return errors.WithMessage(err, "Password fail to crypt")
	}
	patch := store.Doc{"password": hashed}
	for k, v := range extra {
		patch[k] = v
	}
	return errors.WithMessage(s.Update(ctx, store.Users, userKey, patch), "update password")
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if len(password) < 6 {
		return errno.ParamErr.WithMessage("password must be at least 6 characters")
	}
	// bcrypt ignores anything past 72 bytes
	if len(password) > 72 {
		return errno.ParamErr.WithMessage("password must be at most 72 bytes")
	}

	hasDigit, hasLetter := false, false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
		}
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') {
			hasLetter = true
		}
	}
	if !hasDigit || !hasLetter {
		return errno.ParamErr.WithMessage("password needs at least one letter and one digit")
	}
	return nil
}
