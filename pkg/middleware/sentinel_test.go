package middleware

import (
	"context"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitRejectsOverThreshold(t *testing.T) {
	require.NoError(t, InitFlow(2))

	r := route.NewEngine(config.NewOptions(nil))
	blocked := func(_ context.Context, c *app.RequestContext) {
		c.String(consts.StatusTooManyRequests, "slow down")
	}
	r.POST("/w", Limit(WriteResource, blocked), func(_ context.Context, c *app.RequestContext) {
		c.String(consts.StatusOK, "ok")
	})

	rejected := 0
	for i := 0; i < 5; i++ {
		if ut.PerformRequest(r, consts.MethodPost, "/w", nil).Result().StatusCode() == consts.StatusTooManyRequests {
			rejected++
		}
	}
	assert.GreaterOrEqual(t, rejected, 1)
}
