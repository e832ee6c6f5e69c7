package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/quotegate/internal/domain/dto"
)

// ErrorHandler renders errors that handlers attached with c.Error() but did not answer.
//
// The last error wins. A dto.ErrorResponse is sent as-is; any other error is
// surfaced with its raw message. The status is the one already set on the
// writer when it is an error status, 500 otherwise.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var body dto.ErrorResponse
	if !errors.As(err, &body) {
		body = dto.NewErrorResponse("", err)
	}
	c.JSON(status, body)
}

// AbortWithError stops the chain and writes a JSON error body.
// The error is also recorded on the context for the access log.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
