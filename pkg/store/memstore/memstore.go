// Package memstore is an in-process store.Store used by tests and by the
// `--store=memory` development mode. It enforces the same unique indexes as
// the MySQL schema.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

var uniqueIndexes = map[store.Collection][][]string{
	store.Users:         {{"username"}, {"email"}},
	store.Reactions:     {{"actor", "target"}},
	store.Subscriptions: {{"subscriber", "channel"}},
}

type collection struct {
	docs  map[string]store.Doc
	order []string
}

type Store struct {
	mu    sync.RWMutex
	colls map[store.Collection]*collection
	last  time.Time

	// Now stamps created_at / updated_at; tests replace it for determinism.
	Now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		colls: make(map[store.Collection]*collection),
		Now:   time.Now,
	}
}

var empty = &collection{docs: map[string]store.Doc{}}

// peek is coll for readers: it never creates, so it is safe under RLock.
func (s *Store) peek(c store.Collection) *collection {
	if col, ok := s.colls[c]; ok {
		return col
	}
	return empty
}

// coll creates the collection on first use; callers hold the write lock.
func (s *Store) coll(c store.Collection) *collection {
	col, ok := s.colls[c]
	if !ok {
		col = &collection{docs: make(map[string]store.Doc)}
		s.colls[c] = col
	}
	return col
}

func (s *Store) Get(ctx context.Context, c store.Collection, key string) (store.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.peek(c).docs[key]
	if !ok {
		return nil, errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	return doc.Clone(), nil
}

func (s *Store) Find(ctx context.Context, c store.Collection, filter store.Filter, opts *store.FindOptions) ([]store.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := s.scan(c, filter)
	s.mu.RUnlock()

	if opts == nil {
		return matched, nil
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return store.Less(matched[i], matched[j], opts.Sort)
		})
	}
	return window(matched, opts.Skip, opts.Limit), nil
}

func (s *Store) Count(ctx context.Context, c store.Collection, filter store.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	col := s.peek(c)
	for _, key := range col.order {
		if filter.Match(col.docs[key]) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Insert(ctx context.Context, c store.Collection, doc store.Doc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.coll(c)
	doc = doc.Clone()
	if doc.Key() == "" {
		doc[store.FieldID] = store.NewKey()
	}
	if _, dup := col.docs[doc.Key()]; dup {
		return errno.ConflictErr.WithMessagef("%s %s already exists", c, doc.Key())
	}
	if err := s.checkUnique(c, doc, ""); err != nil {
		return err
	}
	now := s.stamp()
	if _, ok := doc[store.FieldCreatedAt]; !ok {
		doc[store.FieldCreatedAt] = now
	}
	doc[store.FieldUpdatedAt] = now
	col.docs[doc.Key()] = doc
	col.order = append(col.order, doc.Key())
	return nil
}

func (s *Store) Update(ctx context.Context, c store.Collection, key string, patch store.Doc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.coll(c)
	cur, ok := col.docs[key]
	if !ok {
		return errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	next := cur.Clone()
	for k, v := range patch.Clone() {
		if k == store.FieldID {
			continue
		}
		next[k] = v
	}
	if err := s.checkUnique(c, next, key); err != nil {
		return err
	}
	next[store.FieldUpdatedAt] = s.stamp()
	col.docs[key] = next
	return nil
}

func (s *Store) Delete(ctx context.Context, c store.Collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.coll(c)
	if _, ok := col.docs[key]; !ok {
		return errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	s.remove(col, key)
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, c store.Collection, filter store.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.coll(c)
	var victims []string
	for _, key := range col.order {
		if filter.Match(col.docs[key]) {
			victims = append(victims, key)
		}
	}
	for _, key := range victims {
		s.remove(col, key)
	}
	return int64(len(victims)), nil
}

func (s *Store) remove(col *collection, key string) {
	delete(col.docs, key)
	for i, k := range col.order {
		if k == key {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
}

func (s *Store) scan(c store.Collection, filter store.Filter) []store.Doc {
	col := s.peek(c)
	out := make([]store.Doc, 0)
	for _, key := range col.order {
		if doc := col.docs[key]; filter.Match(doc) {
			out = append(out, doc.Clone())
		}
	}
	return out
}

func (s *Store) checkUnique(c store.Collection, doc store.Doc, self string) error {
	for _, fields := range uniqueIndexes[c] {
		want := indexValue(doc, fields)
		if want == "" {
			continue
		}
		for key, other := range s.peek(c).docs {
			if key != self && indexValue(other, fields) == want {
				return errno.ConflictErr.WithMessagef("%s with same %s already exists", c, strings.Join(fields, ", "))
			}
		}
	}
	return nil
}

func indexValue(doc store.Doc, fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		v := doc.String(f)
		if v == "" {
			return ""
		}
		parts[i] = v
	}
	return strings.Join(parts, "\x00")
}

// stamp returns strictly increasing timestamps so that created_at ordering
// is total even when the clock does not advance between inserts.
func (s *Store) stamp() time.Time {
	t := s.Now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func window(docs []store.Doc, skip, limit int64) []store.Doc {
	if skip >= int64(len(docs)) {
		return []store.Doc{}
	}
	docs = docs[skip:]
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}
