package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

type RegisterRequest struct {
	Username   string `validate:"notblank,max=64"`
	Email      string `validate:"required,email"`
	Fullname   string `validate:"notblank,max=128"`
	Password   string `validate:"required"`
	AvatarPath string
	CoverPath  string
}

type CreateUserService struct {
	ctx      context.Context
	store    store.Store
	uploader Uploader
}

func NewCreateUserService(ctx context.Context, s store.Store, uploader Uploader) *CreateUserService {
	return &CreateUserService{ctx: ctx, store: s, uploader: uploader}
}

// Register creates a user. Handle and email are case-folded and unique;
// images are uploaded only after both are known to be free.
func (v *CreateUserService) Register(req *RegisterRequest) (store.Doc, error) {
	req.Username = utils.Fold(req.Username)
	req.Email = utils.Fold(req.Email)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if err := validatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	n, err := v.store.Count(v.ctx, store.Users, store.Where(store.Or(
		store.Where(store.Eq("username", req.Username)),
		store.Where(store.Eq("email", req.Email)),
	)))
	if err != nil {
		return nil, errors.WithMessage(err, "check duplicate user")
	}
	if n > 0 {
		return nil, errno.ConflictErr.WithMessage("User with email or username already exists")
	}

	passWord, err := utils.Crypt(req.Password)
	if err != nil {
		return nil, errors.WithMessage(err, "Password fail to crypt")
	}
	u := store.Doc{
		store.FieldID:           store.NewKey(),
		"username":              req.Username,
		"email":                 req.Email,
		"fullname":              req.Fullname,
		"password":              passWord,
		"avatar":                "",
		"cover_image":           "",
		"upload_terms_accepted": false,
		"watch_history":         []store.Doc{},
	}
	if req.AvatarPath != "" {
		if u["avatar"], err = v.uploader.Upload(v.ctx, constants.PictureBucket, req.AvatarPath); err != nil {
			return nil, errors.WithMessage(err, "upload avatar")
		}
	}
	if req.CoverPath != "" {
		if u["cover_image"], err = v.uploader.Upload(v.ctx, constants.PictureBucket, req.CoverPath); err != nil {
			return nil, errors.WithMessage(err, "upload cover image")
		}
	}
	if err = v.store.Insert(v.ctx, store.Users, u); err != nil {
		return nil, errors.WithMessage(err, "create user")
	}
	hlog.CtxInfof(v.ctx, "registered user %s", req.Username)
	return self(u), nil
}
