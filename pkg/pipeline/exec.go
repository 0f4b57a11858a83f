package pipeline

import (
	"context"
	"sort"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"vidtube.com/pkg/store"
)

// Executor runs pipelines against a Store. It holds no per-request state and
// is safe for concurrent use.
type Executor struct {
	Store store.Store
}

func NewExecutor(s store.Store) *Executor {
	return &Executor{Store: s}
}

// Run evaluates the whole pipeline over every root record.
func (x *Executor) Run(ctx context.Context, p Pipeline, env Env) ([]store.Doc, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.run")
	defer span.Finish()
	span.SetTag("view", p.Name)

	f, n := head(p.Stages, env.Viewer)
	docs, err := x.Store.Find(ctx, p.From, f, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline %s", p.Name)
	}
	return x.Apply(ctx, docs, p.Stages[n:], env)
}

// Count evaluates only the filter prefix and returns how many records
// survive it.
func (x *Executor) Count(ctx context.Context, p Pipeline, env Env) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.count")
	defer span.Finish()
	span.SetTag("view", p.Name)

	prefix := p.Prefix()
	f, n := head(prefix, env.Viewer)
	if n == len(prefix) {
		total, err := x.Store.Count(ctx, p.From, f)
		return total, errors.WithMessagef(err, "pipeline %s", p.Name)
	}
	docs, err := x.Store.Find(ctx, p.From, f, nil)
	if err != nil {
		return 0, errors.WithMessagef(err, "pipeline %s", p.Name)
	}
	docs, err = x.Apply(ctx, docs, prefix[n:], env)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// Page returns the records at positions [skip, skip+limit) of the full
// result. When the prefix is a plain store filter followed directly by a
// Sort, ordering and windowing happen in the store and the remaining
// stages run over the page only. limit 0 means everything from skip on.
func (x *Executor) Page(ctx context.Context, p Pipeline, env Env, skip, limit int64) ([]store.Doc, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.page")
	defer span.Finish()
	span.SetTag("view", p.Name)

	prefix := p.Prefix()
	f, n := head(prefix, env.Viewer)
	if n == len(prefix) {
		if opts, rest, ok := pushdown(p.Stages[n:], skip, limit); ok {
			span.SetTag("pushdown", true)
			docs, err := x.Store.Find(ctx, p.From, f, opts)
			if err != nil {
				return nil, errors.WithMessagef(err, "pipeline %s", p.Name)
			}
			return x.Apply(ctx, docs, rest, env)
		}
	}
	docs, err := x.Store.Find(ctx, p.From, f, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline %s", p.Name)
	}
	docs, err = x.Apply(ctx, docs, p.Stages[n:], env)
	if err != nil {
		return nil, err
	}
	return Window(docs, skip, limit), nil
}

// pushdown decides whether the window can be taken by the store. That holds
// when the stages left after the filter head start with a Sort, or contain
// no Sort at all, since nothing after the prefix drops records.
func pushdown(rest []Stage, skip, limit int64) (*store.FindOptions, []Stage, bool) {
	if len(rest) > 0 {
		if s, ok := rest[0].(Sort); ok {
			return &store.FindOptions{Sort: s.Keys, Skip: skip, Limit: limit}, rest[1:], true
		}
	}
	for _, s := range rest {
		if _, ok := s.(Sort); ok {
			return nil, nil, false
		}
	}
	return &store.FindOptions{Skip: skip, Limit: limit}, rest, true
}

// Window slices docs to [skip, skip+limit).
func Window(docs []store.Doc, skip, limit int64) []store.Doc {
	if skip >= int64(len(docs)) {
		return []store.Doc{}
	}
	docs = docs[skip:]
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}

// Apply runs stages over docs already in memory. The slice and the records
// in it may be modified.
func (x *Executor) Apply(ctx context.Context, docs []store.Doc, stages []Stage, env Env) ([]store.Doc, error) {
	var err error
	for _, s := range stages {
		if len(docs) == 0 {
			return []store.Doc{}, nil
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		switch st := s.(type) {
		case Match:
			docs = lo.Filter(docs, func(d store.Doc, _ int) bool { return st.Filter.Match(d) })
		case Guard:
			docs = lo.Filter(docs, func(d store.Doc, _ int) bool { return st.visible(d, env.Viewer) })
		case Lookup:
			err = x.lookup(ctx, docs, st, env)
		case LookupOne:
			docs, err = x.lookupOne(ctx, docs, st, env)
		case AddFields:
			for _, d := range docs {
				for _, fd := range st.Fields {
					d[fd.Name] = fd.Fn(d, env)
				}
			}
		case Sort:
			sort.SliceStable(docs, func(i, j int) bool { return store.Less(docs[i], docs[j], st.Keys) })
		case Project:
			docs = lo.Map(docs, func(d store.Doc, _ int) store.Doc { return st.apply(d) })
		default:
			return nil, errors.Errorf("pipeline: unknown stage %T", s)
		}
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (g Guard) visible(d store.Doc, viewer string) bool {
	if g.Field == "" {
		return g.Rule.Visible(d, viewer)
	}
	v, _ := d.Get(g.Field)
	sub, ok := v.(store.Doc)
	if !ok || len(sub) == 0 {
		return false
	}
	return g.Rule.Visible(sub, viewer)
}

func (p Project) apply(d store.Doc) store.Doc {
	if len(p.Include) > 0 {
		out := store.Doc{store.FieldID: d[store.FieldID]}
		for _, f := range p.Include {
			if v, ok := d[f]; ok {
				out[f] = v
			}
		}
		if v, ok := d[joinKey]; ok {
			out[joinKey] = v
		}
		return out
	}
	for _, f := range p.Exclude {
		if f != store.FieldID {
			delete(d, f)
		}
	}
	return d
}
