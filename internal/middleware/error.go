package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error,
// unless the handler already wrote a response. Anything that is not an
// AppError becomes a generic INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, toAppError(c.Errors.Last().Err))
	}
}

// abortWithError stops the chain with the standard error body.
func abortWithError(c *gin.Context, err error) {
	c.Abort()
	writeError(c, toAppError(err))
}

func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// writeError logs the internal cause, if any, and writes
// {"error":{"code","message"}} with the error's status.
func writeError(c *gin.Context, appErr *apperrors.AppError) {
	if appErr.Internal != nil {
		logger.Named("http").Errorw("Request failed",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
	}
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
