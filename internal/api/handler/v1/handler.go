package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
)

// ServiceFactory binds controllers to the request's session.
type ServiceFactory interface {
	For(creds client.CredentialSource) *service.Services
}

// Submitter runs one submission per form at a time.
type Submitter interface {
	Submit(key string, fn func() error) error
}

// ConfirmationGate holds destructive actions until the user answers.
type ConfirmationGate interface {
	Request(owner string, target flow.Target, prompt string) flow.Pending
	Confirm(owner, id string) (flow.Pending, error)
	Cancel(owner, id string) error
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         healthcheck
// @Produce      json
// @Success      200  {string}  string  "OK"
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, "OK")
}

func services(ctx *gin.Context, f ServiceFactory) *service.Services {
	return f.For(middleware.Store(ctx))
}

// currentSession is only called behind RequireSession.
func currentSession(ctx *gin.Context) domain.Session {
	s, _ := middleware.CurrentSession(ctx)
	return s
}

// formKey identifies one form of one user for the submit state machine.
func formKey(ctx *gin.Context, form string) string {
	return currentSession(ctx).UserID() + ":" + form
}

// bindJSON decodes and, when the request knows how, validates the body.
// It renders the error itself and reports whether the handler may go on.
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return validate(ctx, req, req)
}

func validate(ctx *gin.Context, req any, draft any) bool {
	v, ok := req.(validation.Validatable)
	if !ok {
		return true
	}

	if err := v.Validate(); err != nil {
		renderErr(ctx, client.FromValidation(err), draft)
		return false
	}

	return true
}

func bindList(ctx *gin.Context) (domain.ListFilter, bool) {
	var query request.ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.ListFilter{}, false
	}
	if !validate(ctx, &query, nil) {
		return domain.ListFilter{}, false
	}

	return query.Filter(), true
}

// renderErr renders a controller error. Drafts are echoed on failed
// submissions so nothing the user typed is lost.
func renderErr(ctx *gin.Context, err error, draft any) {
	var validationInternal validation.InternalError
	if errors.As(err, &validationInternal) {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// A rejected credential ends the session so the browser goes back to login.
	if errors.Is(err, client.ErrUnauthenticated) {
		if _, ok := middleware.CurrentSession(ctx); ok {
			middleware.Store(ctx).Invalidate(ctx.Request.Context())
		}
	}

	e := response.FromError(err)
	if draft != nil && e.HTTPStatusCode != http.StatusUnauthorized {
		e.WithDraft(draft)
	}
	response.RenderErr(ctx, e)
}
