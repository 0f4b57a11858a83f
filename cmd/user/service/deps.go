package service

import (
	"context"
	"time"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

// Uploader stores a local file in a bucket and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, localPath string) (string, error)
	Remove(ctx context.Context, bucket, url string) error
}

// Mailer queues transactional email.
type Mailer interface {
	SendResetPassword(ctx context.Context, to, fullname, link string) error
}

// Locker serialises work on a named resource across processes.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

var now = time.Now

// private user fields never returned, even to the user themselves.
var private = []string{"password", "refresh_token", "reset_password_token", "reset_password_expire", "watch_history"}

// self is what a user sees of their own record.
func self(u store.Doc) store.Doc {
	for _, f := range private {
		delete(u, f)
	}
	return u
}

func loadUser(ctx context.Context, s store.Store, key string) (store.Doc, error) {
	u, err := s.Get(ctx, store.Users, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("user not found")
		}
		return nil, err
	}
	return u, nil
}
