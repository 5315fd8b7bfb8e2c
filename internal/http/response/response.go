package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/ctxutil"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, APIError{Message: msg, Code: code})
}

// RespondInternal logs the cause and hides it from the client.
func RespondInternal(c *gin.Context, log *logger.Logger, err error) {
	if log != nil {
		fields := []interface{}{"method", c.Request.Method, "path", c.FullPath(), "error", err}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		log.Error("Request failed", fields...)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{Message: "Internal server error"})
}

// RespondErr dispatches on the error type: apierr values keep their status and
// code, anything else is a 500.
func RespondErr(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500 {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	RespondInternal(c, log, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
