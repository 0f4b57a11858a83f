package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
	"vidtube.com/pkg/utils"
)

type SearchCount struct {
	SearchText string `json:"searchText"`
	Count      int64  `json:"count"`
}

// SearchCounter counts search phrases, keeping at most capacity of them.
type SearchCounter interface {
	Incr(ctx context.Context, text string, capacity int64) error
	Top(ctx context.Context, limit int64) ([]SearchCount, error)
}

type TopSearchService struct {
	ctx     context.Context
	counter SearchCounter
}

func NewTopSearchService(ctx context.Context, counter SearchCounter) *TopSearchService {
	return &TopSearchService{ctx: ctx, counter: counter}
}

// Record counts one search. Failures are logged only, a search must not
// fail because its statistics could not be written.
func (service *TopSearchService) Record(text string) {
	text = utils.Fold(text)
	if text == "" || service.counter == nil {
		return
	}
	if err := service.counter.Incr(service.ctx, text, constants.TopSearchCapacity); err != nil {
		hlog.CtxWarnf(service.ctx, "record search %q: %v", text, err)
	}
}

func (service *TopSearchService) TopSearches(limit int64) ([]SearchCount, error) {
	if limit < 1 || limit > constants.MaxLimit {
		return nil, errno.ParamErr.WithMessage("limit is out of range")
	}
	if service.counter == nil {
		return []SearchCount{}, nil
	}
	return service.counter.Top(service.ctx, limit)
}
