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

type AssignmentHandler struct {
	services  ServiceFactory
	submitter Submitter
	gate      ConfirmationGate
}

func NewAssignmentHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate) *AssignmentHandler {
	return &AssignmentHandler{
		services:  services,
		submitter: submitter,
		gate:      gate,
	}
}

// HandleListAssignments godoc
// @Summary      List petugas assigned to an event
// @Tags         assignments
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {array}   domain.Assignment
// @Router       /events/{eventID}/petugas [get]
// @Security BearerAuth
func (h *AssignmentHandler) HandleListAssignments(ctx *gin.Context) {
	assignments, err := services(ctx, h.services).Assignments.List(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListAssignments -> Assignments.List -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, assignments)
}

// HandleAssign godoc
// @Summary      Assign petugas to an event
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                 true  "event ID"
// @Param        request  body      request.AssignRequest  true  "petugas ids"
// @Success      200      {array}   domain.Assignment
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID}/petugas [post]
// @Security BearerAuth
func (h *AssignmentHandler) HandleAssign(ctx *gin.Context) {
	var req request.AssignRequest
	if !bindJSON(ctx, &req) {
		return
	}

	eventID := ctx.Param("eventID")
	var assignments []domain.Assignment
	err := h.submitter.Submit(formKey(ctx, "assign:"+eventID), func() (err error) {
		assignments, err = services(ctx, h.services).Assignments.Assign(ctx.Request.Context(), eventID, req.PetugasIDs)
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleAssign -> Assignments.Assign -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusOK, assignments)
}

// HandleUnassign godoc
// @Summary      Ask to remove a petugas from an event
// @Tags         assignments
// @Produce      json
// @Param        eventID    path      string  true  "event ID"
// @Param        petugasID  path      string  true  "petugas user ID"
// @Success      202        {object}  flow.Pending
// @Failure      404        {object}  response.Err
// @Router       /events/{eventID}/petugas/{petugasID}/delete [post]
// @Security BearerAuth
func (h *AssignmentHandler) HandleUnassign(ctx *gin.Context) {
	eventID, petugasID := ctx.Param("eventID"), ctx.Param("petugasID")

	assignments, err := services(ctx, h.services).Assignments.List(ctx.Request.Context(), eventID)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUnassign -> Assignments.List -> %w", err), nil)
		return
	}

	name := ""
	found := false
	for _, a := range assignments {
		if a.UserID() == petugasID {
			found = true
			if a.Petugas != nil {
				name = a.Petugas.FullName
			}
			break
		}
	}
	if !found {
		renderErr(ctx, client.NotFound("assignment of petugas", petugasID), nil)
		return
	}
	if name == "" {
		name = petugasID
	}

	pending := h.gate.Request(currentSession(ctx).UserID(),
		flow.Target{Kind: policy.KindAssignment, ID: petugasID, ParentID: eventID},
		fmt.Sprintf("Remove %s from this event?", name))

	ctx.JSON(http.StatusAccepted, pending)
}
