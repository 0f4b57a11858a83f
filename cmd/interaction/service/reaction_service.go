package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/metrics"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
)

// Target kinds and reaction transitions.
const (
	TargetVideo   = "video"
	TargetComment = "comment"
	TargetTweet   = "tweet"

	Like    = "like"
	Dislike = "dislike"
	Remove  = "remove"

	// Removed is reported when a reaction was deleted.
	Removed = "removed"
)

// maxReactionAttempts bounds conflict retries of one toggle.
const maxReactionAttempts = 3

var targetCollections = map[string]store.Collection{
	TargetVideo:   store.Videos,
	TargetComment: store.Comments,
	TargetTweet:   store.Tweets,
}

// Locker serialises work on a named resource across processes.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

type ReactionRequest struct {
	Actor      string `validate:"required"`
	TargetKind string `validate:"oneof=video comment tweet"`
	TargetKey  string `validate:"required"`
	Desired    string `validate:"oneof=like dislike remove"`
}

// ReactionResult reports the resulting kind, or Removed together with the
// kind that was removed.
type ReactionResult struct {
	Kind     string `json:"kind"`
	Previous string `json:"previous,omitempty"`
}

// ReactionService is the only writer of reaction records. The unique index
// on (actor, target) makes a lost insert race surface as a conflict, which
// is retried as an update.
type ReactionService struct {
	ctx    context.Context
	store  store.Store
	locker Locker
}

// NewReactionService creates the service. locker may be nil.
func NewReactionService(ctx context.Context, s store.Store, locker Locker) *ReactionService {
	return &ReactionService{ctx: ctx, store: s, locker: locker}
}

func reactionTarget(kind, key string) string {
	return kind + ":" + key
}

func (service *ReactionService) ApplyReaction(req *ReactionRequest) (res *ReactionResult, err error) {
	span, ctx := opentracing.StartSpanFromContext(service.ctx, "reaction.apply")
	defer span.Finish()

	if err = utils.Validate(req); err != nil {
		return nil, err
	}
	key, err := store.ParseKey(req.TargetKey, req.TargetKind+" id")
	if err != nil {
		return nil, err
	}
	target := reactionTarget(req.TargetKind, key)
	span.SetTag("target", target)

	if service.locker != nil {
		unlock, err := service.locker.Lock(ctx, "reaction:"+req.Actor+":"+target)
		if err != nil {
			return nil, errors.WithMessage(err, "lock reaction")
		}
		defer unlock()
	}

	defer func() {
		outcome := "error"
		if res != nil {
			outcome = res.Kind
		}
		metrics.ReactionApplied(req.TargetKind, outcome)
	}()

	for attempt := 0; attempt < maxReactionAttempts; attempt++ {
		existing, err := service.find(ctx, req.Actor, target)
		if err != nil {
			return nil, err
		}

		if req.Desired == Remove {
			if existing == nil {
				return nil, errno.InvalidOperationErr
			}
			err = service.store.Delete(ctx, store.Reactions, existing.Key())
			if errno.IsNotFound(err) {
				continue
			}
			if err != nil {
				return nil, errors.WithMessage(err, "delete reaction")
			}
			return &ReactionResult{Kind: Removed, Previous: existing.String("kind")}, nil
		}

		if existing != nil {
			if existing.String("kind") == req.Desired {
				return &ReactionResult{Kind: req.Desired}, nil
			}
			err = service.store.Update(ctx, store.Reactions, existing.Key(), store.Doc{"kind": req.Desired})
			if errno.IsNotFound(err) {
				continue
			}
			if err != nil {
				return nil, errors.WithMessage(err, "update reaction")
			}
			return &ReactionResult{Kind: req.Desired, Previous: existing.String("kind")}, nil
		}

		if _, err = service.store.Get(ctx, targetCollections[req.TargetKind], key); err != nil {
			if errno.IsNotFound(err) {
				return nil, errno.NotFoundErr.WithMessagef("%s not found", req.TargetKind)
			}
			return nil, err
		}
		err = service.store.Insert(ctx, store.Reactions, store.Doc{
			store.FieldID:  store.NewKey(),
			"actor":        req.Actor,
			"kind":         req.Desired,
			"target":       target,
			req.TargetKind: key,
		})
		if errno.IsConflict(err) {
			metrics.ReactionConflict()
			hlog.CtxInfof(ctx, "reaction %s by %s raced, retrying as update", target, req.Actor)
			continue
		}
		if err != nil {
			return nil, errors.WithMessage(err, "insert reaction")
		}
		return &ReactionResult{Kind: req.Desired}, nil
	}
	return nil, errno.ConflictErr.WithMessage("reaction is being changed concurrently, try again")
}

func (service *ReactionService) find(ctx context.Context, actor, target string) (store.Doc, error) {
	docs, err := service.store.Find(ctx, store.Reactions,
		store.Where(store.Eq("actor", actor), store.Eq("target", target)),
		&store.FindOptions{Limit: 1})
	if err != nil {
		return nil, errors.WithMessage(err, "find reaction")
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// RemoveAll deletes every reaction on the given targets of one kind. It is
// the companion delete run when those targets are deleted.
func (service *ReactionService) RemoveAll(kind string, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := service.store.DeleteMany(service.ctx, store.Reactions, store.Where(store.In(kind, keys)))
	return n, errors.WithMessagef(err, "remove reactions on %d %ss", len(keys), kind)
}
