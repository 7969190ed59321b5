package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// HandleLogin godoc
// @Summary      Sign in
// @Description  Signs in against the tender backend and stores the session in a cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.SessionResponse
// @Failure      401      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if !bindJSON(ctx, &req) {
		return
	}

	session, err := middleware.Store(ctx).Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrUnauthenticated):
			e, _ := client.AsError(err)
			response.RenderErr(ctx, response.ErrWrongCredentials(e))
		case errors.Is(err, service.ErrUnsupportedRole):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrUnsupportedRole))
		case errors.Is(err, service.ErrMissingCredential):
			response.RenderErr(ctx, response.ErrBadGateway(err, "The tender service returned an invalid login response."))
		default:
			if _, ok := client.AsError(err); ok {
				renderErr(ctx, err, nil)
				return
			}
			err = fmt.Errorf("v1.HandleLogin -> store.Login -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewSessionResponse(session))
}

// HandleLogout godoc
// @Summary      Sign out
// @Description  Clears the local session. The backend is told too, but its answer does not matter.
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	middleware.Store(ctx).Logout(ctx.Request.Context())

	ctx.Status(http.StatusNoContent)
}

// HandleMe godoc
// @Summary      Current session
// @Description  Returns the signed-in user with the views, landing page and navigation their role gets.
// @Tags         auth
// @Produce      json
// @Success      200      {object}   response.SessionResponse
// @Failure      401      {object}   response.Err
// @Router       /me [get]
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.NewSessionResponse(currentSession(ctx)))
}
