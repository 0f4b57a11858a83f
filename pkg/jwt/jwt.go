// Package jwt issues and checks the access/refresh token pair.
package jwt

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	gojwt "github.com/golang-jwt/jwt/v4"
	hertzjwt "github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"

	"vidtube.com/pkg/constants"
	"vidtube.com/pkg/errno"
)

type UnauthorizedFunc func(ctx context.Context, c *app.RequestContext, code int, message string)

// Tokens signs access and refresh tokens with distinct keys so that neither
// can stand in for the other.
type Tokens struct {
	Access  *hertzjwt.HertzJWTMiddleware
	Refresh *hertzjwt.HertzJWTMiddleware
}

func newMiddleware(realm string, key []byte, ttl time.Duration, unauthorized UnauthorizedFunc) (*hertzjwt.HertzJWTMiddleware, error) {
	return hertzjwt.New(&hertzjwt.HertzJWTMiddleware{
		Realm:         realm,
		Key:           key,
		Timeout:       ttl,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization, cookie: " + realm,
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) hertzjwt.MapClaims {
			if key, ok := data.(string); ok {
				return hertzjwt.MapClaims{constants.IdentityKey: key}
			}
			return hertzjwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := hertzjwt.ExtractClaims(ctx, c)
			key, _ := claims[constants.IdentityKey].(string)
			return key
		},
		Unauthorized: unauthorized,
	})
}

func New(secret string, accessTTL, refreshTTL time.Duration, unauthorized UnauthorizedFunc) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	access, err := newMiddleware("access_token", []byte(secret), accessTTL, unauthorized)
	if err != nil {
		return nil, errors.Wrap(err, "access token middleware")
	}
	refresh, err := newMiddleware("refresh_token", []byte(secret+":refresh"), refreshTTL, unauthorized)
	if err != nil {
		return nil, errors.Wrap(err, "refresh token middleware")
	}
	return &Tokens{Access: access, Refresh: refresh}, nil
}

// Issue signs a fresh pair for userKey.
func (t *Tokens) Issue(userKey string) (access, refresh string, err error) {
	if access, _, err = t.Access.TokenGenerator(userKey); err != nil {
		return "", "", errors.Wrap(err, "sign access token")
	}
	if refresh, _, err = t.Refresh.TokenGenerator(userKey); err != nil {
		return "", "", errors.Wrap(err, "sign refresh token")
	}
	return access, refresh, nil
}

// RefreshOwner returns the user a refresh token was issued to.
func (t *Tokens) RefreshOwner(token string) (string, error) {
	parsed, err := t.Refresh.ParseTokenString(token)
	if err != nil || !parsed.Valid {
		return "", errno.TokenInvalidErr
	}
	claims, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok {
		return "", errno.TokenInvalidErr
	}
	key, _ := claims[constants.IdentityKey].(string)
	if key == "" {
		return "", errno.TokenInvalidErr
	}
	return key, nil
}

// Required rejects requests without a valid access token.
func (t *Tokens) Required() app.HandlerFunc {
	return t.Access.MiddlewareFunc()
}

// Optional identifies the viewer when a valid access token is present and
// lets anonymous requests through.
func (t *Tokens) Optional() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		claims, err := t.Access.GetClaimsFromJWT(ctx, c)
		if err == nil {
			if exp, ok := claims["exp"].(float64); ok && int64(exp) > time.Now().Unix() {
				if key, ok := claims[constants.IdentityKey].(string); ok {
					c.Set(constants.IdentityKey, key)
				}
			}
		}
		c.Next(ctx)
	}
}

// Viewer is the authenticated user key, or "" for anonymous requests.
func Viewer(c *app.RequestContext) string {
	return c.GetString(constants.IdentityKey)
}
