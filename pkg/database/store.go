package database

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
)

type Store struct {
	db     *gorm.DB
	tables map[store.Collection]*table
}

var _ store.Store = (*Store)(nil)

func NewStore(db *gorm.DB) (*Store, error) {
	tables, err := parseTables(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, tables: tables}, nil
}

func (s *Store) table(c store.Collection) (*table, error) {
	t, ok := s.tables[c]
	if !ok {
		return nil, errors.Errorf("unknown collection %s", c)
	}
	return t, nil
}

func (s *Store) scope(ctx context.Context, c store.Collection, f store.Filter) (*gorm.DB, *table, error) {
	t, err := s.table(c)
	if err != nil {
		return nil, nil, err
	}
	sql, args, err := t.where(f)
	if err != nil {
		return nil, nil, err
	}
	return s.db.WithContext(ctx).Table(t.name).Where(sql, args...), t, nil
}

func (s *Store) Get(ctx context.Context, c store.Collection, key string) (store.Doc, error) {
	docs, err := s.Find(ctx, c, store.Where(store.Eq(store.FieldID, key)), &store.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	return docs[0], nil
}

func (s *Store) Find(ctx context.Context, c store.Collection, f store.Filter, opts *store.FindOptions) ([]store.Doc, error) {
	q, t, err := s.scope(ctx, c, f)
	if err != nil {
		return nil, err
	}
	if opts != nil {
		for _, k := range opts.Sort {
			if _, err = t.quote(k.Field); err != nil {
				return nil, err
			}
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: k.Field}, Desc: k.Desc})
		}
		limit := opts.Limit
		if limit == 0 && opts.Skip > 0 {
			limit = math.MaxInt32
		}
		if limit > 0 {
			q = q.Limit(int(limit))
		}
		if opts.Skip > 0 {
			q = q.Offset(int(opts.Skip))
		}
	}
	var rows []map[string]interface{}
	if err = q.Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "find %s", c)
	}
	docs := make([]store.Doc, 0, len(rows))
	for _, row := range rows {
		d, err := t.decode(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context, c store.Collection, f store.Filter) (int64, error) {
	q, _, err := s.scope(ctx, c, f)
	if err != nil {
		return 0, err
	}
	var n int64
	if err = q.Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", c)
	}
	return n, nil
}

func (s *Store) Insert(ctx context.Context, c store.Collection, d store.Doc) error {
	t, err := s.table(c)
	if err != nil {
		return err
	}
	now := time.Now()
	if d.Key() == "" {
		d[store.FieldID] = store.NewKey()
	}
	if _, ok := d[store.FieldCreatedAt]; !ok {
		d[store.FieldCreatedAt] = now
	}
	d[store.FieldUpdatedAt] = now
	row, err := t.encode(d)
	if err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Table(t.name).Create(row).Error, "insert %s", c)
}

func (s *Store) Update(ctx context.Context, c store.Collection, key string, patch store.Doc) error {
	t, err := s.table(c)
	if err != nil {
		return err
	}
	patch = patch.Clone()
	delete(patch, store.FieldID)
	patch[store.FieldUpdatedAt] = time.Now()
	row, err := t.encode(patch)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(t.name).Where("`id` = ?", key).Updates(row)
	if err = translate(res.Error, "update %s", c); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return s.exists(ctx, c, key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, c store.Collection, key string) error {
	n, err := s.DeleteMany(ctx, c, store.Where(store.Eq(store.FieldID, key)))
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, c store.Collection, f store.Filter) (int64, error) {
	t, err := s.table(c)
	if err != nil {
		return 0, err
	}
	sql, args, err := t.where(f)
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Exec("DELETE FROM `"+t.name+"` WHERE "+sql, args...)
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "delete %s", c)
	}
	return res.RowsAffected, nil
}

// exists distinguishes a no-op update from a missing row.
func (s *Store) exists(ctx context.Context, c store.Collection, key string) error {
	n, err := s.Count(ctx, c, store.Where(store.Eq(store.FieldID, key)))
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.NotFoundErr.WithMessagef("%s %s not found", c, key)
	}
	return nil
}

func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errno.ConflictErr.WithMessagef(format+": duplicate key", args...)
	}
	return errors.Wrapf(err, format, args...)
}
