package service

import (
	"context"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/visibility"
)

// WatchService records plays: the video's view counter and the viewer's
// watch history. Both are read-modify-write, so each runs under a lock.
type WatchService struct {
	ctx    context.Context
	store  store.Store
	locker Locker
}

// NewWatchService creates the service. Without a locker, writes are only
// serialised within this process.
func NewWatchService(ctx context.Context, s store.Store, locker Locker) *WatchService {
	if locker == nil {
		locker = processLocks
	}
	return &WatchService{ctx: ctx, store: s, locker: locker}
}

// RecordView counts one play of videoKey. A signed-in viewer also gets the
// video moved to the front of their history, which keeps one entry per video.
func (s *WatchService) RecordView(viewer, videoKey string) error {
	key, err := store.ParseKey(videoKey, "videoId")
	if err != nil {
		return err
	}
	v, err := s.store.Get(s.ctx, store.Videos, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return errno.NotFoundErr.WithMessage("Video not found")
		}
		return err
	}
	if !visibility.Video.Visible(v, viewer) {
		return errno.NotFoundErr.WithMessage("Video not found")
	}

	if err = s.incrementViews(key); err != nil {
		return err
	}
	if viewer == "" {
		return nil
	}
	return s.pushHistory(viewer, key)
}

func (s *WatchService) incrementViews(key string) error {
	unlock, err := s.locker.Lock(s.ctx, "views:"+key)
	if err != nil {
		return errors.WithMessage(err, "lock view counter")
	}
	defer unlock()

	v, err := s.store.Get(s.ctx, store.Videos, key)
	if err != nil {
		return err
	}
	return errors.WithMessage(s.store.Update(s.ctx, store.Videos, key, store.Doc{"views": v.Int64("views") + 1}), "increment views")
}

func (s *WatchService) pushHistory(viewer, key string) error {
	unlock, err := s.locker.Lock(s.ctx, "history:"+viewer)
	if err != nil {
		return errors.WithMessage(err, "lock watch history")
	}
	defer unlock()

	u, err := loadUser(s.ctx, s.store, viewer)
	if err != nil {
		return err
	}
	old := u.Docs("watch_history")
	history := make([]store.Doc, 0, len(old)+1)
	history = append(history, store.Doc{"video": key, "watched_at": now()})
	for _, e := range old {
		if len(history) == constants.WatchHistoryCapacity {
			break
		}
		if e.String("video") != key {
			history = append(history, e)
		}
	}
	return errors.WithMessage(s.store.Update(s.ctx, store.Users, viewer, store.Doc{"watch_history": history}), "update watch history")
}

// ClearHistory empties the viewer's watch history.
func (s *WatchService) ClearHistory(viewer string) error {
	unlock, err := s.locker.Lock(s.ctx, "history:"+viewer)
	if err != nil {
		return errors.WithMessage(err, "lock watch history")
	}
	defer unlock()

	if _, err = loadUser(s.ctx, s.store, viewer); err != nil {
		return err
	}
	hlog.CtxInfof(s.ctx, "clearing watch history of %s", viewer)
	return errors.WithMessage(s.store.Update(s.ctx, store.Users, viewer, store.Doc{"watch_history": []store.Doc{}}), "clear watch history")
}

var processLocks = &localLocker{}

// localLocker serialises work per name within this process. An entry lives
// only while someone holds or waits for it.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	sem  chan struct{}
	refs int
}

func (l *localLocker) Lock(ctx context.Context, name string) (func(), error) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[string]*localLock{}
	}
	e, ok := l.locks[name]
	if !ok {
		e = &localLock{sem: make(chan struct{}, 1)}
		l.locks[name] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.release(name, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(name, e)
		return nil, errors.Wrapf(ctx.Err(), "acquire %s", name)
	}
}

func (l *localLocker) release(name string, e *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.refs--; e.refs == 0 {
		delete(l.locks, name)
	}
}
