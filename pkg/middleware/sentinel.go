package middleware

import (
	"context"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

// WriteResource guards every mutating route.
const WriteResource = "vidtube:write"

// InitFlow loads the flow rules. A qps of zero or less disables limiting.
func InitFlow(writeQPS float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel")
	}
	if writeQPS <= 0 {
		_, err := flow.LoadRules(nil)
		return errors.Wrap(err, "clear flow rules")
	}
	_, err := flow.LoadRules([]*flow.Rule{{
		Resource:               WriteResource,
		TokenCalculateStrategy: flow.Direct,
		ControlBehavior:        flow.Reject,
		Threshold:              writeQPS,
		StatIntervalInMs:       1000,
	}})
	if err != nil {
		return errors.Wrap(err, "load flow rules")
	}
	hlog.Infof("write routes limited to %.0f qps", writeQPS)
	return nil
}

// Limit admits a request through resource or hands it to onBlock.
func Limit(resource string, onBlock app.HandlerFunc) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			onBlock(ctx, c)
			c.Abort()
			return
		}
		defer e.Exit()
		c.Next(ctx)
	}
}
