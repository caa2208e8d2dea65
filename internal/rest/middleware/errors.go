package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// ErrorHandler converts errors attached to the gin context into the
// standard error response envelope with the mapped HTTP status
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
