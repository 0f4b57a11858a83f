package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix = "vidtube:lock:"
	lockExpiry = 5 * time.Second
	lockTries  = 20
)

// Locker hands out redsync mutexes, one per resource name.
type Locker struct {
	rs *redsync.Redsync
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{rs: redsync.New(goredis.NewPool(client))}
}

func (l *Locker) Lock(ctx context.Context, name string) (func(), error) {
	m := l.rs.NewMutex(lockPrefix+name,
		redsync.WithExpiry(lockExpiry),
		redsync.WithTries(lockTries),
		redsync.WithRetryDelay(25*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, errors.Wrapf(err, "acquire %s", name)
	}
	return func() {
		if ok, err := m.UnlockContext(context.Background()); !ok || err != nil {
			hlog.Warnf("release lock %s: ok=%v err=%v", name, ok, err)
		}
	}, nil
}
