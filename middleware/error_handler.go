package middleware

import (
	"koya/logger"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware recovers panics and unhandled c.Errors into an opaque 500.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context()).
					Interface("panic", rec).
					Str("method", c.Request.Method).
					Str("path", c.FullPath()).
					Msg("panic recovered")

				if !c.Writer.Written() {
					utils.InternalServerError(c)
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			logger.Error(c.Request.Context()).Err(err.Err).Str("path", c.FullPath()).Msg("request error")

			if !c.Writer.Written() {
				utils.InternalServerError(c)
			}
		}
	}
}
