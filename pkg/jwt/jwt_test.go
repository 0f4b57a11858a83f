package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
)

func newTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := New("s3cret", time.Hour, 24*time.Hour, func(_ context.Context, c *app.RequestContext, code int, message string) {
		c.String(code, message)
	})
	require.NoError(t, err)
	return tokens
}

func TestIssueAndRefresh(t *testing.T) {
	tokens := newTokens(t)
	access, refresh, err := tokens.Issue("user-1")
	require.NoError(t, err)

	owner, err := tokens.RefreshOwner(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)

	_, err = tokens.RefreshOwner(access)
	assert.ErrorIs(t, err, errno.TokenInvalidErr)
	_, err = tokens.RefreshOwner("garbage")
	assert.ErrorIs(t, err, errno.TokenInvalidErr)
}

func TestRequiredAndOptional(t *testing.T) {
	tokens := newTokens(t)
	access, _, err := tokens.Issue("user-1")
	require.NoError(t, err)

	r := route.NewEngine(config.NewOptions(nil))
	whoami := func(_ context.Context, c *app.RequestContext) {
		c.String(consts.StatusOK, "viewer="+Viewer(c))
	}
	r.GET("/private", tokens.Required(), whoami)
	r.GET("/public", tokens.Optional(), whoami)
	bearer := ut.Header{Key: "Authorization", Value: "Bearer " + access}

	w := ut.PerformRequest(r, consts.MethodGet, "/private", nil, bearer)
	assert.Equal(t, "viewer=user-1", string(w.Result().Body()))
	w = ut.PerformRequest(r, consts.MethodGet, "/private", nil)
	assert.Equal(t, consts.StatusUnauthorized, w.Result().StatusCode())

	w = ut.PerformRequest(r, consts.MethodGet, "/public", nil, bearer)
	assert.Equal(t, "viewer=user-1", string(w.Result().Body()))
	w = ut.PerformRequest(r, consts.MethodGet, "/public", nil)
	assert.Equal(t, "viewer=", string(w.Result().Body()))
}
