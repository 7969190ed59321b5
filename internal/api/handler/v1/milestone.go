package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
)

type MilestoneHandler struct {
	services  ServiceFactory
	submitter Submitter
	gate      ConfirmationGate
}

func NewMilestoneHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate) *MilestoneHandler {
	return &MilestoneHandler{
		services:  services,
		submitter: submitter,
		gate:      gate,
	}
}

// ReportView is a progress report with whether the session may change it.
type ReportView struct {
	domain.ProgressReport
	CanEdit bool `json:"can_edit"`
}

// MilestonePage is the milestone detail view.
type MilestonePage struct {
	Milestone domain.Milestone                       `json:"milestone"`
	Reports   []ReportView                           `json:"progress_reports"`
	Actions   map[policy.Kind]map[policy.Action]bool `json:"actions"`
}

// HandleListMilestones godoc
// @Summary      List an event's milestones
// @Tags         milestones
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {array}   domain.Milestone
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/milestones [get]
// @Security BearerAuth
func (h *MilestoneHandler) HandleListMilestones(ctx *gin.Context) {
	milestones, err := services(ctx, h.services).Milestones.ListByEvent(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListMilestones -> Milestones.ListByEvent -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, milestones)
}

// HandleGetMilestone godoc
// @Summary      Milestone detail
// @Description  Milestone with its event and progress reports. Reports carry can_edit for their author.
// @Tags         milestones
// @Produce      json
// @Param        milestoneID  path      string  true  "milestone ID"
// @Success      200          {object}  MilestonePage
// @Failure      404          {object}  response.Err
// @Router       /milestones/{milestoneID} [get]
// @Security BearerAuth
func (h *MilestoneHandler) HandleGetMilestone(ctx *gin.Context) {
	milestone, err := services(ctx, h.services).Milestones.Get(ctx.Request.Context(), ctx.Param("milestoneID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleGetMilestone -> Milestones.Get -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, newMilestonePage(currentSession(ctx), milestone))
}

func newMilestonePage(s domain.Session, milestone domain.Milestone) MilestonePage {
	reports := make([]ReportView, 0, len(milestone.ProgressReports))
	for _, r := range milestone.ProgressReports {
		reports = append(reports, ReportView{ProgressReport: r, CanEdit: policy.CanEditReport(s, r)})
	}

	return MilestonePage{
		Milestone: milestone,
		Reports:   reports,
		Actions: map[policy.Kind]map[policy.Action]bool{
			policy.KindMilestone:      policy.Actions(s.Role(), policy.KindMilestone),
			policy.KindProgressReport: policy.Actions(s.Role(), policy.KindProgressReport),
		},
	}
}

// HandleCreateMilestone godoc
// @Summary      Add a milestone to an event
// @Description  The deadline must fall within the event's period. urutan defaults to the next position.
// @Tags         milestones
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                    true  "event ID"
// @Param        request  body      request.MilestoneRequest  true  "milestone"
// @Success      201      {object}  service.MilestoneChange
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID}/milestones [post]
// @Security BearerAuth
func (h *MilestoneHandler) HandleCreateMilestone(ctx *gin.Context) {
	var req request.MilestoneRequest
	if !bindJSON(ctx, &req) {
		return
	}

	eventID := ctx.Param("eventID")
	var change service.MilestoneChange
	err := h.submitter.Submit(formKey(ctx, "milestone:new:"+eventID), func() (err error) {
		change, err = services(ctx, h.services).Milestones.Create(ctx.Request.Context(), eventID, req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleCreateMilestone -> Milestones.Create -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusCreated, change)
}

// HandleUpdateMilestone godoc
// @Summary      Update a milestone
// @Tags         milestones
// @Accept       json
// @Produce      json
// @Param        milestoneID  path      string                    true  "milestone ID"
// @Param        request      body      request.MilestoneRequest  true  "milestone"
// @Success      200          {object}  service.MilestoneChange
// @Failure      404          {object}  response.Err
// @Failure      422          {object}  response.Err
// @Router       /milestones/{milestoneID} [put]
// @Security BearerAuth
func (h *MilestoneHandler) HandleUpdateMilestone(ctx *gin.Context) {
	var req request.MilestoneRequest
	if !bindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("milestoneID")
	var change service.MilestoneChange
	err := h.submitter.Submit(formKey(ctx, "milestone:"+id), func() (err error) {
		change, err = services(ctx, h.services).Milestones.Update(ctx.Request.Context(), id, req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUpdateMilestone -> Milestones.Update -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusOK, change)
}

// HandleDeleteMilestone godoc
// @Summary      Ask to delete a milestone
// @Tags         milestones
// @Produce      json
// @Param        milestoneID  path      string  true  "milestone ID"
// @Success      202          {object}  flow.Pending
// @Failure      404          {object}  response.Err
// @Router       /milestones/{milestoneID}/delete [post]
// @Security BearerAuth
func (h *MilestoneHandler) HandleDeleteMilestone(ctx *gin.Context) {
	milestone, err := services(ctx, h.services).Milestones.Get(ctx.Request.Context(), ctx.Param("milestoneID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleDeleteMilestone -> Milestones.Get -> %w", err), nil)
		return
	}

	pending := h.gate.Request(currentSession(ctx).UserID(),
		flow.Target{Kind: policy.KindMilestone, ID: milestone.ID, ParentID: milestone.EventID},
		fmt.Sprintf("Are you sure you want to delete milestone %q and its progress reports?", milestone.Name))

	ctx.JSON(http.StatusAccepted, pending)
}
