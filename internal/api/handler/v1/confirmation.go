package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
)

type ConfirmationHandler struct {
	services  ServiceFactory
	submitter Submitter
	gate      ConfirmationGate
}

func NewConfirmationHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate) *ConfirmationHandler {
	return &ConfirmationHandler{
		services:  services,
		submitter: submitter,
		gate:      gate,
	}
}

// HandleConfirm godoc
// @Summary      Confirm a pending deletion
// @Description  Carries out the deletion and returns the refreshed collection it belonged to.
// @Tags         confirmations
// @Produce      json
// @Param        confirmationID  path      string  true  "confirmation ID"
// @Success      200             {object}  response.Deleted
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      409             {object}  response.Err
// @Router       /confirmations/{confirmationID} [post]
// @Security BearerAuth
func (h *ConfirmationHandler) HandleConfirm(ctx *gin.Context) {
	s := currentSession(ctx)

	pending, err := h.gate.Confirm(s.UserID(), ctx.Param("confirmationID"))
	if err != nil {
		renderErr(ctx, err, nil)
		return
	}

	target := pending.Target
	if !policy.CanMutate(s.Role(), target.Kind, policy.ActionDelete) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("role %s may not delete %s", s.Role(), target.Kind)))
		return
	}

	var data any
	err = h.submitter.Submit(formKey(ctx, "delete:"+string(target.Kind)+":"+target.ID), func() (err error) {
		data, err = remove(ctx.Request.Context(), services(ctx, h.services), s, target)
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleConfirm -> remove %s -> %w", target.Kind, err), nil)
		return
	}

	ctx.JSON(http.StatusOK, response.Deleted{
		Message: fmt.Sprintf("%s deleted", target.Kind),
		Kind:    string(target.Kind),
		ID:      target.ID,
		Data:    data,
	})
}

func remove(ctx context.Context, svc *service.Services, s domain.Session, target flow.Target) (any, error) {
	switch target.Kind {
	case policy.KindEvent:
		if err := svc.Events.Remove(ctx, target.ID); err != nil {
			return nil, err
		}
		return svc.Events.List(ctx, domain.ListFilter{Page: 1, Limit: 10})

	case policy.KindMilestone:
		return svc.Milestones.Remove(ctx, target.ID)

	case policy.KindProgressReport:
		milestone, err := svc.Progress.Remove(ctx, target.ParentID, target.ID)
		if err != nil {
			return nil, err
		}
		return newMilestonePage(s, milestone), nil

	case policy.KindAssignment:
		return svc.Assignments.Unassign(ctx, target.ParentID, target.ID)

	case policy.KindUser:
		if err := svc.Users.Remove(ctx, target.ID); err != nil {
			return nil, err
		}
		return svc.Users.List(ctx, domain.ListFilter{Page: 1, Limit: 10})
	}

	return nil, fmt.Errorf("unknown target kind %q", target.Kind)
}

// HandleCancel godoc
// @Summary      Cancel a pending deletion
// @Description  Nothing is sent to the tender backend.
// @Tags         confirmations
// @Param        confirmationID  path      string  true  "confirmation ID"
// @Success      204
// @Failure      404             {object}  response.Err
// @Router       /confirmations/{confirmationID} [delete]
// @Security BearerAuth
func (h *ConfirmationHandler) HandleCancel(ctx *gin.Context) {
	if err := h.gate.Cancel(currentSession(ctx).UserID(), ctx.Param("confirmationID")); err != nil {
		renderErr(ctx, err, nil)
		return
	}

	ctx.Status(http.StatusNoContent)
}
