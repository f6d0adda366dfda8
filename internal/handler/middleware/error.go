package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes a JSON error body for requests whose handler attached an
// error but left the response empty. Public errors already carry their body;
// private ones are classified with httperr.StatusOf.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if resp, ok := lastPublicResponse(c.Errors); ok {
			c.JSON(resp.Status, resp)
			return
		}
		if last := c.Errors.Last(); last != nil {
			status := httperr.StatusOf(last.Err)
			c.JSON(status, genericResponse(status))
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, genericResponse(http.StatusInternalServerError))
	}
}

func lastPublicResponse(errors []*gin.Error) (httperr.Response, bool) {
	for i := len(errors) - 1; i >= 0; i-- {
		if !errors[i].IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := errors[i].Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

func genericResponse(status int) httperr.Response {
	resp := httperr.Response{Status: status}
	switch status {
	case http.StatusBadRequest:
		resp.Error.Message = "Invalid request"
	case http.StatusNotFound:
		resp.Error.Message = "Not found"
	default:
		resp.Error.Message = "Internal server error"
	}
	return resp
}

// CustomRecovery turns a panic into a 500 and logs where it happened.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err := errs.New(fmt.Sprint(rec))
			slog.Error("recovered from panic",
				slog.String("request_id", GetRequestID(c)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", rec),
				slog.Any("stack", errs.ExtractStackLines(err, 16)))

			c.AbortWithStatusJSON(http.StatusInternalServerError, genericResponse(http.StatusInternalServerError))
		}()
		c.Next()
	}
}
