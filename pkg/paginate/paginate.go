// Package paginate turns pipeline results into page objects. Collection pages
// a joined collection by running the shared filter prefix twice (count and
// page); Embedded pages a list stored inline on its owner, slicing before
// the entries are expanded.
package paginate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/pipeline"
	"vidtube.com/pkg/store"
)

// Request is a validated 1-based page request.
type Request struct {
	Page  int64
	Limit int64
}

// NewRequest applies defaults to zero values and rejects anything else out
// of range with errno.ParamErr.
func NewRequest(page, limit, defaultLimit int64) (Request, error) {
	if page == 0 {
		page = constants.DefaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 {
		return Request{}, errno.ParamErr.WithMessage("page must be at least 1")
	}
	if limit < 1 || limit > constants.MaxLimit {
		return Request{}, errno.ParamErr.WithMessagef("limit must be between 1 and %d", constants.MaxLimit)
	}
	return Request{Page: page, Limit: limit}, nil
}

func (r Request) Skip() int64 {
	return (r.Page - 1) * r.Limit
}

// Page is the page object returned by every list view.
type Page struct {
	Docs          []store.Doc `json:"docs"`
	TotalDocs     int64       `json:"totalDocs"`
	Limit         int64       `json:"limit"`
	Page          int64       `json:"page"`
	TotalPages    int64       `json:"totalPages"`
	PagingCounter int64       `json:"pagingCounter"`
	HasPrevPage   bool        `json:"hasPrevPage"`
	HasNextPage   bool        `json:"hasNextPage"`
	PrevPage      *int64      `json:"prevPage"`
	NextPage      *int64      `json:"nextPage"`
}

func NewPage(docs []store.Doc, total int64, r Request) *Page {
	if docs == nil {
		docs = []store.Doc{}
	}
	p := &Page{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         r.Limit,
		Page:          r.Page,
		TotalPages:    (total + r.Limit - 1) / r.Limit,
		PagingCounter: r.Skip() + 1,
		HasPrevPage:   r.Page > 1,
		HasNextPage:   r.Page*r.Limit < total,
	}
	if p.HasPrevPage {
		prev := r.Page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := r.Page + 1
		p.NextPage = &next
	}
	return p
}

// Collection pages a pipeline over its root collection. The count and the
// page run concurrently and are not snapshot consistent with each other.
func Collection(ctx context.Context, x *pipeline.Executor, p pipeline.Pipeline, env pipeline.Env, r Request) (*Page, error) {
	var (
		total int64
		docs  []store.Doc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = x.Count(gctx, p, env)
		return err
	})
	g.Go(func() (err error) {
		docs, err = x.Page(gctx, p, env, r.Skip(), r.Limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewPage(docs, total, r), nil
}

// Expander turns a slice of embedded entries into result records. It may
// drop entries; dropped entries are not backfilled from later positions.
type Expander func(ctx context.Context, entries []store.Doc) ([]store.Doc, error)

// Embedded pages an inline list: the total is the list length and only the
// requested window is expanded.
func Embedded(ctx context.Context, entries []store.Doc, r Request, expand Expander) (*Page, error) {
	window := pipeline.Window(entries, r.Skip(), r.Limit)
	docs, err := expand(ctx, window)
	if err != nil {
		return nil, err
	}
	return NewPage(docs, int64(len(entries)), r), nil
}
