package base

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	userservice "vidtube.com/cmd/user/service"
	videoservice "vidtube.com/cmd/video/service"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/jwt"
	"vidtube.com/pkg/paginate"
	"vidtube.com/pkg/store"
	"vidtube.com/pkg/view"
)

// Suggester completes partly typed video titles.
type Suggester interface {
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Deps is everything the handlers reach for. Optional integrations are nil
// when not configured.
type Deps struct {
	Store    store.Store
	Views    *view.Engine
	Tokens   *jwt.Tokens
	Uploader userservice.Uploader
	Mailer   userservice.Mailer
	Locker   userservice.Locker
	Index    videoservice.Indexer
	Suggest  Suggester
	Searches videoservice.SearchCounter
	ResetURL string
}

var App *Deps

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	c.JSON(httpStatus(Err.ErrCode), Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

func httpStatus(code int64) int {
	switch code {
	case errno.SuccessCode:
		return consts.StatusOK
	case errno.ParamErrCode:
		return consts.StatusBadRequest
	case errno.AuthorizationFailedErrCode, errno.TokenInvalidErrCode:
		return consts.StatusUnauthorized
	case errno.NotFoundErrCode:
		return consts.StatusNotFound
	case errno.ConflictErrCode:
		return consts.StatusConflict
	case errno.TooManyRequestErrCode:
		return consts.StatusTooManyRequests
	}
	return consts.StatusInternalServerError
}

// Fail logs a service error with its stack and sends it.
func Fail(ctx context.Context, c *app.RequestContext, err error) {
	if e := errno.ConvertErr(err); e.ErrCode == errno.ServiceErrCode {
		hlog.CtxErrorf(ctx, "stack trace: \n%+v\n", err)
	}
	SendResponse(c, err, nil)
}

type PageParam struct {
	Page  int64 `query:"page"`
	Limit int64 `query:"limit"`
}

// PageRequest reads page and limit from the query string.
func PageRequest(c *app.RequestContext, defaultLimit int64) (paginate.Request, error) {
	var p PageParam
	if err := c.BindQuery(&p); err != nil {
		return paginate.Request{}, errno.ParamErr.WithMessage("page and limit must be integers")
	}
	return paginate.NewRequest(p.Page, p.Limit, defaultLimit)
}

// BindAndValidate binds the request, reporting failures as ParamErr.
func BindAndValidate(c *app.RequestContext, req interface{}) error {
	if err := c.BindAndValidate(req); err != nil {
		return errno.ParamErr.WithMessage(err.Error())
	}
	return nil
}

// SaveUpload stores the multipart file field in a temp dir. A missing field
// yields an empty path; cleanup is always safe to call.
func SaveUpload(c *app.RequestContext, field string) (path string, cleanup func(), err error) {
	cleanup = func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		return "", cleanup, nil
	}
	dir, err := os.MkdirTemp("", "upload-")
	if err != nil {
		return "", cleanup, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }
	path = filepath.Join(dir, filepath.Base(fh.Filename))
	if err = c.SaveUploadedFile(fh, path); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return path, cleanup, nil
}
