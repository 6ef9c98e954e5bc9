package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "merlin/internal/errors"
	"merlin/internal/logger"
)

// NoRoute answers unknown routes in the same error shape as everything else.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		WriteError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found"))
	}
}

// Recovery turns a panic into a logged internal error response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Named("http").Errorw("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(apperrors.ErrInternalServer))
	})
}

// abortWithError stops the chain with an error response.
func abortWithError(c *gin.Context, err error) {
	WriteError(c, err)
	c.Abort()
}

// writeError renders AppErrors with their own status and code. Anything
// else is logged and hidden behind a generic internal error.
func WriteError(c *gin.Context, err error) {
	log := logger.Named("http")

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			log.Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
			)
		}
		c.JSON(appErr.StatusCode, errorBody(appErr))
		return
	}

	log.Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", c.GetString(requestIDKey),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, errorBody(apperrors.ErrInternalServer))
}

func errorBody(appErr *apperrors.AppError) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
}
