package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

type UserHandler struct {
	services  ServiceFactory
	submitter Submitter
	gate      ConfirmationGate
}

func NewUserHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate) *UserHandler {
	return &UserHandler{
		services:  services,
		submitter: submitter,
		gate:      gate,
	}
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page    query     int     false  "page number"
// @Param        limit   query     int     false  "page size"
// @Param        search  query     string  false  "search text"
// @Param        role    query     string  false  "role"
// @Success      200     {object}  domain.Page[domain.User]
// @Failure      403     {object}  response.Err
// @Router       /users [get]
// @Security BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	filter, ok := bindList(ctx)
	if !ok {
		return
	}

	page, err := services(ctx, h.services).Users.List(ctx.Request.Context(), filter)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListUsers -> Users.List -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleListPetugas godoc
// @Summary      Active petugas
// @Description  Every active petugas, for assignment pickers.
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Router       /petugas [get]
// @Security BearerAuth
func (h *UserHandler) HandleListPetugas(ctx *gin.Context) {
	users, err := services(ctx, h.services).Users.Petugas(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListPetugas -> Users.Petugas -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "user ID"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	user, err := services(ctx, h.services).Users.Get(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleGetUser -> Users.Get -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Description  Passwords need at least 8 characters with a letter and a digit.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.UserRequest  true  "user"
// @Success      201      {object}  domain.User
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /users [post]
// @Security BearerAuth
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.UserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var user domain.User
	err := h.submitter.Submit(formKey(ctx, "user:new"), func() (err error) {
		user, err = services(ctx, h.services).Users.Create(ctx.Request.Context(), req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleCreateUser -> Users.Create -> %w", err), req.Redacted())
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleUpdateUser godoc
// @Summary      Update a user
// @Description  Leave password blank to keep the current one.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID   path      string               true  "user ID"
// @Param        request  body      request.UserRequest  true  "user"
// @Success      200      {object}  domain.User
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /users/{userID} [put]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	var req request.UserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("userID")
	var user domain.User
	err := h.submitter.Submit(formKey(ctx, "user:"+id), func() (err error) {
		user, err = services(ctx, h.services).Users.Update(ctx.Request.Context(), id, req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUpdateUser -> Users.Update -> %w", err), req.Redacted())
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Ask to delete a user
// @Tags         users
// @Produce      json
// @Param        userID  path      string  true  "user ID"
// @Success      202     {object}  flow.Pending
// @Failure      404     {object}  response.Err
// @Failure      422     {object}  response.Err
// @Router       /users/{userID}/delete [post]
// @Security BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	s := currentSession(ctx)
	id := ctx.Param("userID")
	if id == s.UserID() {
		renderErr(ctx, client.FieldError("id", "you cannot delete your own account"), nil)
		return
	}

	user, err := services(ctx, h.services).Users.Get(ctx.Request.Context(), id)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleDeleteUser -> Users.Get -> %w", err), nil)
		return
	}

	pending := h.gate.Request(s.UserID(),
		flow.Target{Kind: policy.KindUser, ID: user.ID},
		fmt.Sprintf("Are you sure you want to delete %s? This action cannot be undone.", user.FullName))

	ctx.JSON(http.StatusAccepted, pending)
}
