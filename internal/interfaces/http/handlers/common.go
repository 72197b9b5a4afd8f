// Package handlers implements the gin handlers behind the API routes.
// Handlers bind and validate input, call the application services, and
// translate results and errors into the shared response envelope.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

func respond(c *gin.Context, status int, data interface{}) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

func respondPaginated(c *gin.Context, data interface{}, p common.Pagination) {
	resp := common.NewPaginatedResponse(data, p)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(http.StatusOK, resp)
}

// respondError maps an application error onto the HTTP status of its code
// and writes the error envelope. Unknown errors are masked as internal.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message := err.Error()
	if status >= 500 {
		message = errors.DefaultMessageForCode(code)
	}

	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
}

// parsePagination reads page/page_size query parameters, clamping to the
// 1..100 range the repository expects.
func parsePagination(c *gin.Context) common.Pagination {
	page := 1
	pageSize := 20
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return common.Pagination{Page: page, PageSize: pageSize}
}
