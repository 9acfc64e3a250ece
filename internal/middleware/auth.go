package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/access"
	"github.com/yukikurage/agiliza-api/internal/constants"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// CallerResolver turns a token or a session user ID into the request's caller.
type CallerResolver interface {
	ParseToken(token string) (uint64, error)
	ResolveCaller(ctx context.Context, userID uint64) (access.Caller, error)
}

// RequireAuth authenticates the request with a bearer token, falling back to
// the session cookie. The resolved caller is stored in the context.
func RequireAuth(resolver CallerResolver, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, resolver)
		if !ok {
			return
		}
		if userID == 0 {
			userID, ok = toUint64(sessions.Default(c).Get(constants.ContextKeyUserID))
			if !ok {
				apierrors.Unauthorized(c, "")
				return
			}
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrAuthentication) {
				apierrors.Unauthorized(c, err.Error())
				return
			}
			log.WithError(err).WithField("user_id", userID).Error("Failed to resolve caller")
			apierrors.InternalError(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, caller.UserID)
		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// bearerUserID returns 0 when no Authorization header is present. An invalid
// header aborts the request and returns false.
func bearerUserID(c *gin.Context, resolver CallerResolver) (uint64, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, true
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		apierrors.Unauthorized(c, "Invalid authorization header")
		return 0, false
	}

	userID, err := resolver.ParseToken(strings.TrimSpace(token))
	if err != nil {
		apierrors.Unauthorized(c, err.Error())
		return 0, false
	}
	return userID, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetCaller retrieves the caller stored by RequireAuth
func GetCaller(c *gin.Context) (access.Caller, bool) {
	v, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return access.Caller{}, false
	}
	caller, ok := v.(access.Caller)
	return caller, ok
}

func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
