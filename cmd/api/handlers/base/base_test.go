package base

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
)

func TestFailStatusAndMessage(t *testing.T) {
	r := route.NewEngine(config.NewOptions(nil))
	r.GET("/missing", func(ctx context.Context, c *app.RequestContext) {
		Fail(ctx, c, errors.WithMessage(errno.NotFoundErr.WithMessage("video not found"), "load video"))
	})
	r.GET("/broken", func(ctx context.Context, c *app.RequestContext) {
		Fail(ctx, c, errors.New("Error 1146 (42S02): Table 'vidtube.videos' doesn't exist"))
	})

	tests := []struct {
		path    string
		status  int
		code    int64
		message string
	}{
		{"/missing", consts.StatusNotFound, errno.NotFoundErrCode, "video not found"},
		{"/broken", consts.StatusInternalServerError, errno.ServiceErrCode, errno.ServiceErr.ErrMsg},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := ut.PerformRequest(r, consts.MethodGet, tt.path, nil)
			resp := w.Result()
			assert.Equal(t, tt.status, resp.StatusCode())

			var body Response
			require.NoError(t, sonic.Unmarshal(resp.Body(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.NotContains(t, string(resp.Body()), "42S02")
		})
	}
}
