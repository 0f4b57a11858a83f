// Package view builds the read models every list and detail endpoint
// returns. Each view is a statically declared pipeline parameterised by the
// viewer and the request; nothing is cached between calls.
package view

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/metrics"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/visibility"
)

// Searcher returns video keys ranked by relevance for text across fields.
type Searcher interface {
	Search(ctx context.Context, text string, fields []string, limit int) ([]string, error)
}

type Engine struct {
	store  store.Store
	x      *pipeline.Executor
	search Searcher
}

// NewEngine wires an engine over s. search may be nil, in which case
// text queries are rejected.
func NewEngine(s store.Store, search Searcher) *Engine {
	return &Engine{store: s, x: pipeline.NewExecutor(s), search: search}
}

// trace opens a span for one view build and returns the func that closes it.
func trace(ctx context.Context, name string) (context.Context, func(*error)) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "view."+name)
	begin := time.Now()
	return ctx, func(errp *error) {
		if *errp != nil {
			span.SetTag("error", true)
			span.LogKV("event", "error", "message", (*errp).Error())
		}
		span.Finish()
		metrics.ObserveView(name, begin, *errp)
	}
}

func (e *Engine) page(ctx context.Context, p pipeline.Pipeline, viewer string, r paginate.Request) (*paginate.Page, error) {
	return paginate.Collection(ctx, e.x, p, pipeline.Env{Viewer: viewer}, r)
}

func (e *Engine) one(ctx context.Context, p pipeline.Pipeline, viewer, what string) (store.Doc, error) {
	docs, err := e.x.Run(ctx, p, pipeline.Env{Viewer: viewer})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errno.NotFoundErr.WithMessagef("%s not found", what)
	}
	return docs[0], nil
}

// rootVideo loads the video a view hangs off. NSFW videos do not exist as
// far as readers are concerned; private ones are refused to non-owners.
func (e *Engine) rootVideo(ctx context.Context, viewer, raw string) (store.Doc, error) {
	key, err := store.ParseKey(raw, "video id")
	if err != nil {
		return nil, err
	}
	v, err := e.store.Get(ctx, store.Videos, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("video not found")
		}
		hlog.CtxErrorf(ctx, "load video %s failed: %v", key, err)
		return nil, err
	}
	if v.Bool("is_nsfw") {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	if !visibility.Video.Visible(v, viewer) {
		return nil, errno.AuthorizationFailedErr.WithMessage("video is private")
	}
	return v, nil
}

func requireViewer(viewer string) error {
	if viewer == "" {
		return errno.AuthorizationFailedErr.WithMessage("login required")
	}
	return nil
}
