// Package store is the contract between the view engine and whatever holds
// the entities. Records cross it as Doc values; collections are fixed.
package store

import (
	"context"

	"github.com/google/uuid"

	"vidtube.com/pkg/errno"
)

type Collection string

const (
	Users         Collection = "users"
	Videos        Collection = "videos"
	Comments      Collection = "comments"
	Reactions     Collection = "reactions"
	Subscriptions Collection = "subscriptions"
	Playlists     Collection = "playlists"
	Tweets        Collection = "tweets"
)

// Common field names.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

type SortKey struct {
	Field string
	Desc  bool
}

type FindOptions struct {
	Sort  []SortKey
	Skip  int64
	Limit int64 // 0 means no limit
}

// Store is the Entity Store. Get and Update/Delete of a missing key return
// errno.NotFoundErr; an Insert that violates a unique index returns
// errno.ConflictErr. Implementations must honour ctx cancellation.
type Store interface {
	Get(ctx context.Context, coll Collection, key string) (Doc, error)
	Find(ctx context.Context, coll Collection, filter Filter, opts *FindOptions) ([]Doc, error)
	Count(ctx context.Context, coll Collection, filter Filter) (int64, error)
	Insert(ctx context.Context, coll Collection, doc Doc) error
	Update(ctx context.Context, coll Collection, key string, patch Doc) error
	Delete(ctx context.Context, coll Collection, key string) error
	DeleteMany(ctx context.Context, coll Collection, filter Filter) (int64, error)
}

func NewKey() string {
	return uuid.NewString()
}

// ParseKey normalises a caller supplied key, rejecting anything that is not
// a UUID with errno.ParamErr.
func ParseKey(raw, what string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errno.ParamErr.WithMessagef("%s is invalid", what)
	}
	return id.String(), nil
}
