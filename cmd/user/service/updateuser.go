package service

import (
	"context"

	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type UpdateProfileRequest struct {
	Fullname string `validate:"omitempty,notblank,max=128"`
	Email    string `validate:"omitempty,email"`
}

type UpdateUserService struct {
	ctx   context.Context
	store store.Store
}

func NewUpdateUserService(ctx context.Context, s store.Store) *UpdateUserService {
	return &UpdateUserService{ctx: ctx, store: s}
}

func (s *UpdateUserService) UpdateProfile(userKey string, req *UpdateProfileRequest) (store.Doc, error) {
	req.Email = utils.Fold(req.Email)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	patch := store.Doc{}
	if req.Fullname != "" {
		patch["fullname"] = req.Fullname
	}
	if req.Email != "" {
		patch["email"] = req.Email
	}
	if len(patch) == 0 {
		return nil, errno.ParamErr.WithMessage("fullname or email is required")
	}
	if err := s.store.Update(s.ctx, store.Users, userKey, patch); err != nil {
		if errno.IsConflict(err) {
			return nil, errno.ConflictErr.WithMessage("email already in use")
		}
		return nil, errors.WithMessage(err, "update profile")
	}
	return NewGetUserInfoService(s.ctx, s.store).CurrentUser(userKey)
}

// ToggleUploadTerms flips whether the user accepted the upload terms.
func (s *UpdateUserService) ToggleUploadTerms(userKey string) (bool, error) {
	u, err := loadUser(s.ctx, s.store, userKey)
	if err != nil {
		return false, err
	}
	accepted := !u.Bool("upload_terms_accepted")
	if err = s.store.Update(s.ctx, store.Users, userKey, store.Doc{"upload_terms_accepted": accepted}); err != nil {
		return false, errors.WithMessage(err, "toggle upload terms")
	}
	return accepted, nil
}
