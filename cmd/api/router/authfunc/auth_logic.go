package authfunc

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"vidtube.com/cmd/api/handlers/base"
	"vidtube.com/pkg/errno"
)

// Auth rejects requests without a valid access token.
func Auth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		base.App.Tokens.Required(),
	)
}

// MaybeAuth identifies the viewer when a valid access token is present and
// lets anonymous requests through.
func MaybeAuth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		base.App.Tokens.Optional(),
	)
}

// Unauthorized is the jwt middleware's failure response.
func Unauthorized(ctx context.Context, c *app.RequestContext, code int, message string) {
	base.SendResponse(c, errno.TokenInvalidErr.WithMessage(message), nil)
	c.Abort()
}

// Throttled answers a request turned away by flow control.
func Throttled(ctx context.Context, c *app.RequestContext) {
	base.SendResponse(c, errno.TooManyRequestErr, nil)
}
