package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/access"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
	"github.com/yukikurage/agiliza-api/internal/middleware"
	"github.com/yukikurage/agiliza-api/internal/services"
)

// respondServiceError maps a service error onto an HTTP response. Anything
// that is not a rejected request is logged and reported as a 500.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAuthentication):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrPermission):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	default:
		_ = c.Error(err)
		log.WithError(err).WithField("uri", c.Request.URL.Path).Error("Request failed")
		apierrors.InternalError(c, "")
	}
}

// requireCaller fetches the authenticated caller, answering 401 when absent.
func requireCaller(c *gin.Context) (access.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return access.Caller{}, false
	}
	return caller, true
}
