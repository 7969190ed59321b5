package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
)

type Err struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"`

	StatusText string            `json:"status"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	// Draft echoes the rejected submission so the form can be restored.
	Draft any `json:"draft,omitempty"`
}

func (e *Err) Error() string {
	return e.Message
}

func (e *Err) WithDraft(draft any) *Err {
	e.Draft = draft
	return e
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Message,
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", e.HTTPStatusCode),
			zap.Error(e.Err))
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, code string, err error, message string) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		Code:           code,
		Message:        message,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, "bad_request", err, err.Error())
}

func ErrUnauthenticated(err error) *Err {
	return newErr(http.StatusUnauthorized, "unauthenticated", err, err.Error())
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, "wrong_credentials", err, err.Error())
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, "forbidden", err, err.Error())
}

func ErrNotFound(resource, key string, value any) *Err {
	err := fmt.Errorf("%s with %s %v was not found", resource, key, value)
	return newErr(http.StatusNotFound, "not_found", err, err.Error())
}

func ErrValidation(err error, fields map[string]string) *Err {
	e := newErr(http.StatusUnprocessableEntity, "validation_failed", err, err.Error())
	e.Fields = fields
	return e
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, "conflict", err, err.Error())
}

func ErrBadGateway(err error, message string) *Err {
	return newErr(http.StatusBadGateway, "upstream_unavailable", err, message)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, "internal_error", err, "Something went wrong. Please try again.")
}

// FromError maps a controller or flow error onto its response. Messages that
// came from the tender backend are passed through verbatim.
func FromError(err error) *Err {
	if e, ok := client.AsError(err); ok {
		switch {
		case errors.Is(e.Kind, client.ErrUnauthenticated):
			return ErrUnauthenticated(e)
		case errors.Is(e.Kind, client.ErrForbidden):
			return ErrPermissionDenied(e)
		case errors.Is(e.Kind, client.ErrValidation):
			return ErrValidation(e, e.Fields)
		case errors.Is(e.Kind, client.ErrNotFound):
			return newErr(http.StatusNotFound, "not_found", err, e.Error())
		case errors.Is(e.Kind, client.ErrConflict):
			return ErrConflict(e)
		default:
			return ErrBadGateway(err, e.Error())
		}
	}

	switch {
	case errors.Is(err, flow.ErrSubmitInProgress):
		return ErrConflict(flow.ErrSubmitInProgress)
	case errors.Is(err, flow.ErrConfirmationNotFound):
		return newErr(http.StatusNotFound, "not_found", err, flow.ErrConfirmationNotFound.Error())
	}

	return ErrInternalServerError(err)
}
