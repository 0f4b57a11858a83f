package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/utils"
	"vidtube.com/pkg/visibility"
)

type CommentService struct {
	ctx   context.Context
	store store.Store
}

func NewCommentService(ctx context.Context, s store.Store) *CommentService {
	return &CommentService{ctx: ctx, store: s}
}

type AddCommentRequest struct {
	Owner     string `validate:"required"`
	VideoKey  string `validate:"required"`
	ParentKey string
	Content   string `validate:"notblank"`
}

type UpdateCommentRequest struct {
	Owner      string `validate:"required"`
	CommentKey string `validate:"required"`
	Content    string `validate:"notblank"`
}

func validateContent(content string, max int) error {
	if utf8.RuneCountInString(content) > max {
		return errno.ParamErr.WithMessagef("content too long, maximum %d characters allowed", max)
	}
	return nil
}

// AddComment posts a comment or a reply. Threads are one level deep, so a
// reply to a reply is attached to the top-level comment instead.
func (service *CommentService) AddComment(req *AddCommentRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if err := validateContent(content, constants.MaxCommentLength); err != nil {
		return nil, err
	}
	videoKey, err := store.ParseKey(req.VideoKey, "video id")
	if err != nil {
		return nil, err
	}
	video, err := service.store.Get(service.ctx, store.Videos, videoKey)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("video not found")
		}
		return nil, err
	}
	if video.Bool("is_nsfw") {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	if !visibility.Video.Visible(video, req.Owner) {
		return nil, errno.AuthorizationFailedErr.WithMessage("video is private")
	}

	var parent interface{}
	if req.ParentKey != "" {
		root, err := service.threadRoot(req.ParentKey, videoKey)
		if err != nil {
			return nil, err
		}
		parent = root
	}

	c := store.Doc{
		store.FieldID:    store.NewKey(),
		"owner":          req.Owner,
		"video":          videoKey,
		"parent_comment": parent,
		"content":        content,
	}
	if err = service.store.Insert(service.ctx, store.Comments, c); err != nil {
		hlog.CtxErrorf(service.ctx, "insert comment on %s failed: %v", videoKey, err)
		return nil, errors.WithMessage(err, "add comment")
	}
	return c, nil
}

// threadRoot resolves the top-level comment a reply should hang under.
func (service *CommentService) threadRoot(raw, videoKey string) (string, error) {
	key, err := store.ParseKey(raw, "parent comment id")
	if err != nil {
		return "", err
	}
	parent, err := service.store.Get(service.ctx, store.Comments, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return "", errno.NotFoundErr.WithMessage("parent comment not found")
		}
		return "", err
	}
	if parent.String("video") != videoKey {
		return "", errno.ParamErr.WithMessage("parent comment belongs to another video")
	}
	if root, ok := parent.Ref("parent_comment"); ok {
		return root, nil
	}
	return key, nil
}

func (service *CommentService) owned(owner, raw string) (store.Doc, error) {
	key, err := store.ParseKey(raw, "comment id")
	if err != nil {
		return nil, err
	}
	c, err := service.store.Get(service.ctx, store.Comments, key)
	if err != nil {
		if errno.IsNotFound(err) {
			return nil, errno.NotFoundErr.WithMessage("comment not found")
		}
		return nil, err
	}
	if c.String("owner") != owner {
		return nil, errno.AuthorizationFailedErr.WithMessage("only the owner can change this comment")
	}
	return c, nil
}

func (service *CommentService) UpdateComment(req *UpdateCommentRequest) (store.Doc, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if err := validateContent(content, constants.MaxCommentLength); err != nil {
		return nil, err
	}
	c, err := service.owned(req.Owner, req.CommentKey)
	if err != nil {
		return nil, err
	}
	if err = service.store.Update(service.ctx, store.Comments, c.Key(), store.Doc{"content": content}); err != nil {
		return nil, errors.WithMessage(err, "update comment")
	}
	c["content"] = content
	return c, nil
}

// DeleteComment removes a comment, its replies and every reaction on any of
// them.
func (service *CommentService) DeleteComment(owner, commentKey string) error {
	c, err := service.owned(owner, commentKey)
	if err != nil {
		return err
	}
	// 先删反应和回复, 最后删根评论, 失败后可重试
	replies, err := service.store.Find(service.ctx, store.Comments, store.Where(store.Eq("parent_comment", c.Key())), nil)
	if err != nil {
		return errors.WithMessage(err, "find replies")
	}
	keys := []string{c.Key()}
	for _, r := range replies {
		keys = append(keys, r.Key())
	}
	n, err := NewReactionService(service.ctx, service.store, nil).RemoveAll(TargetComment, keys)
	if err != nil {
		return err
	}
	if len(replies) > 0 {
		if _, err = service.store.DeleteMany(service.ctx, store.Comments, store.Where(store.In(store.FieldID, keys[1:]))); err != nil {
			return errors.WithMessage(err, "delete replies")
		}
	}
	if err = service.store.Delete(service.ctx, store.Comments, c.Key()); err != nil {
		return errors.WithMessage(err, "delete comment")
	}
	hlog.CtxInfof(service.ctx, "deleted comment %s with %d replies and %d reactions", c.Key(), len(replies), n)
	return nil
}
