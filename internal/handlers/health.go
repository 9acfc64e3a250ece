package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers liveness probes, checking the database connection.
func Health(db Pinger, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.WithError(err).Error("Health check failed")
			apierrors.ServiceUnavailable(c, "Database unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Agiliza API is running",
		})
	}
}
