package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/pkg/response"
)

var kindStatus = map[application.ErrorKind]int{
	application.KindValidation:      http.StatusBadRequest,
	application.KindUnauthenticated: http.StatusUnauthorized,
	application.KindConflict:        http.StatusConflict,
	application.KindAuthorization:   http.StatusForbidden,
	application.KindNotFound:        http.StatusNotFound,
	application.KindUpstream:        http.StatusBadGateway,
}

// respondError renders a service error. Upstream causes are logged and only
// shown to the client outside production.
func (h *Handlers) respondError(c *gin.Context, err error) {
	kind := application.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := application.MessageOf(err)
	if kind == application.KindUpstream {
		h.logger.Error("upstream failure", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		if h.production {
			msg = "upstream service unavailable, please retry"
		} else {
			msg = err.Error()
		}
	}
	c.JSON(status, response.ErrorResponse{Error: msg})
}

// respondBindError turns validator failures into readable field messages.
func respondBindError(c *gin.Context, err error, labels map[string]string) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		field := fe.StructField()
		lbl, ok := labels[field]
		if !ok {
			lbl = strings.ToLower(field)
		}

		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", lbl, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", lbl)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", lbl, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		msgs = append(msgs, msg)
	}
	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: strings.Join(msgs, "; ")})
}
