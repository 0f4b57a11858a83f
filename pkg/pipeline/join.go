package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"vidtube.com/pkg/store"
)

// joinKey tags each joined record with the foreign value it was matched on
// so grouping survives sub-stages that project the foreign field away.
const joinKey = "_join_key"

// Sensitive user fields never leave a join into users.
var userSecrets = []string{
	"password",
	"refresh_token",
	"reset_password_token",
	"reset_password_expire",
	"email",
	"watch_history",
}

// Redact strips credentials and private fields from a user record.
func Redact(d store.Doc) store.Doc {
	for _, f := range userSecrets {
		delete(d, f)
	}
	return d
}

// localKeys reads the value(s) a record joins on. A key list yields every
// element; a field already replaced by a joined record yields its key.
func localKeys(d store.Doc, field string) []string {
	v, ok := d.Get(field)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		return lo.FilterMap(t, func(e interface{}, _ int) (string, bool) {
			s, ok := e.(string)
			return s, ok && s != ""
		})
	}
	if key, ok := d.Ref(field); ok {
		return []string{key}
	}
	return nil
}

type batch struct {
	docs   []store.Doc
	keys   []string
	groups map[string][]store.Doc
}

// fetch loads every record of from matching any of the parents' local keys in
// one query, runs the sub-pipeline over the batch and groups the survivors by
// the value they matched. Order within a group follows the batch order.
func (x *Executor) fetch(ctx context.Context, docs []store.Doc, from store.Collection, local, foreign string, sub []Stage, env Env) (*batch, error) {
	var keys []string
	for _, d := range docs {
		keys = append(keys, localKeys(d, local)...)
	}
	keys = lo.Uniq(keys)
	b := &batch{groups: map[string][]store.Doc{}}
	if len(keys) == 0 {
		return b, nil
	}

	f, n := head(sub, env.Viewer)
	found, err := x.Store.Find(ctx, from, store.Where(store.In(foreign, keys)).And(f...), nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "lookup %s.%s", from, foreign)
	}
	for _, d := range found {
		if from == store.Users {
			Redact(d)
		}
		key, _ := d.Ref(foreign)
		d[joinKey] = key
	}
	found, err = x.Apply(ctx, found, sub[n:], env)
	if err != nil {
		return nil, err
	}

	b.docs = found
	b.keys = make([]string, len(found))
	for i, d := range found {
		key, _ := d[joinKey].(string)
		delete(d, joinKey)
		b.keys[i] = key
		b.groups[key] = append(b.groups[key], d)
	}
	return b, nil
}

func (x *Executor) lookup(ctx context.Context, docs []store.Doc, st Lookup, env Env) error {
	b, err := x.fetch(ctx, docs, st.From, st.LocalField, st.ForeignField, st.Pipeline, env)
	if err != nil {
		return err
	}
	for _, d := range docs {
		d[st.As] = b.joined(localKeys(d, st.LocalField), st.PreserveOrder)
	}
	return nil
}

// joined assembles one parent's matches. With a single key, or with
// preserveOrder, groups are concatenated in key order; otherwise the
// sub-pipeline's batch order is kept across keys.
func (b *batch) joined(keys []string, preserveOrder bool) []store.Doc {
	out := []store.Doc{}
	if len(keys) == 1 || preserveOrder {
		for _, k := range keys {
			out = append(out, b.groups[k]...)
		}
		return out
	}
	want := lo.SliceToMap(keys, func(k string) (string, bool) { return k, true })
	for i, d := range b.docs {
		if want[b.keys[i]] {
			out = append(out, d)
		}
	}
	return out
}

func (x *Executor) lookupOne(ctx context.Context, docs []store.Doc, st LookupOne, env Env) ([]store.Doc, error) {
	b, err := x.fetch(ctx, docs, st.From, st.LocalField, st.ForeignField, st.Pipeline, env)
	if err != nil {
		return nil, err
	}
	out := docs[:0]
	for _, d := range docs {
		var match store.Doc
		for _, k := range localKeys(d, st.LocalField) {
			if g := b.groups[k]; len(g) > 0 {
				match = g[0]
				break
			}
		}
		if match == nil {
			if st.Required {
				continue
			}
			d[st.As] = nil
		} else {
			d[st.As] = match
		}
		out = append(out, d)
	}
	return out, nil
}
