package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// Recovery converts a handler panic into a 500 response with the standard
// error envelope, logging the panic value and stack.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("HTTP handler panic",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)),
					logging.String("stack", string(debug.Stack())))

				resp := common.NewErrorResponse(errors.CodeInternal.String(), "internal server error")
				resp.RequestID = GetRequestID(c)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
