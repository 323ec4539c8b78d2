package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/muhasabah"
)

// Mode selects how much a guard checks beyond the token itself.
type Mode int

const (
	// ModeStateless trusts a valid access token without touching the store.
	ModeStateless Mode = iota
	// ModeActiveUser also requires the token's user to exist and be active.
	ModeActiveUser
)

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Given token not valid for any token type"
	msgUserNotFound  = "User not found"
	msgUserInactive  = "User is inactive"

	authResultKey = "muhasabah.auth"
	userKey       = "muhasabah.user"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity stored by a guard.
func AuthResultFromContext(ctx context.Context) (*muhasabah.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*muhasabah.AuthResult)
	return res, ok
}

// AuthResult returns the identity a guard stored on c.
func AuthResult(c *gin.Context) (*muhasabah.AuthResult, bool) {
	v, ok := c.Get(authResultKey)
	if !ok {
		return nil, false
	}
	res, ok := v.(*muhasabah.AuthResult)
	return res, ok
}

// User returns the account loaded by a ModeActiveUser guard.
func User(c *gin.Context) (muhasabah.UserRecord, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return muhasabah.UserRecord{}, false
	}
	u, ok := v.(muhasabah.UserRecord)
	return u, ok
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

// Guard authenticates the request or aborts with 401.
func Guard(engine *muhasabah.Engine, mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			abort(c, msgInvalidToken)
			return
		}

		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, msgNoCredentials)
			return
		}

		res, err := engine.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			abort(c, msgInvalidToken)
			return
		}

		if mode == ModeActiveUser {
			user, err := engine.GetUser(c.Request.Context(), res.UserID)
			switch {
			case errors.Is(err, muhasabah.ErrUserNotFound):
				abort(c, msgUserNotFound)
				return
			case err != nil:
				engine.Logger().WithError(err).Error("auth guard: user lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
				return
			case !user.IsActive:
				abort(c, msgUserInactive)
				return
			}
			c.Set(userKey, user)
		}

		c.Set(authResultKey, res)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), authResultContextKey{}, res))
		c.Next()
	}
}

func abort(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
