package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/service"
)

type ProgressHandler struct {
	services       ServiceFactory
	submitter      Submitter
	gate           ConfirmationGate
	maxUploadBytes int64
}

func NewProgressHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate, maxUploadMB int64) *ProgressHandler {
	return &ProgressHandler{
		services:       services,
		submitter:      submitter,
		gate:           gate,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// HandleListProgress godoc
// @Summary      List an event's progress reports
// @Tags         progress
// @Produce      json
// @Param        eventID  path      string  true   "event ID"
// @Param        limit    query     int     false  "maximum number of reports"
// @Success      200      {array}   domain.ProgressReport
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/progress [get]
// @Security BearerAuth
func (h *ProgressHandler) HandleListProgress(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("limit must be a positive number")))
			return
		}
		limit = n
	}

	reports, err := services(ctx, h.services).Progress.ListByEvent(ctx.Request.Context(), ctx.Param("eventID"), limit)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListProgress -> Progress.ListByEvent -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, reports)
}

// bindProgress reads the multipart form and its photos. It renders errors
// itself and reports whether the handler may go on.
func (h *ProgressHandler) bindProgress(ctx *gin.Context) (request.ProgressRequest, domain.ProgressDraft, bool) {
	var req request.ProgressRequest

	if h.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxUploadBytes)
	}
	if err := ctx.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RenderErr(ctx, &response.Err{
				Err:            err,
				HTTPStatusCode: http.StatusRequestEntityTooLarge,
				StatusText:     http.StatusText(http.StatusRequestEntityTooLarge),
				Code:           "upload_too_large",
				Message:        fmt.Sprintf("Uploads are limited to %d MB.", h.maxUploadBytes>>20),
			})
			return req, domain.ProgressDraft{}, false
		}
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, domain.ProgressDraft{}, false
	}

	echo := req
	echo.Photos = nil
	if !validate(ctx, &req, echo) {
		return req, domain.ProgressDraft{}, false
	}

	draft, err := req.ToDraft()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return req, domain.ProgressDraft{}, false
	}
	req.Photos = nil

	return req, draft, true
}

// HandleCreateProgress godoc
// @Summary      Upload a progress report
// @Description  Multipart form with the report fields and any number of photos.
// @Tags         progress
// @Accept       multipart/form-data
// @Produce      json
// @Param        eventID              path      string  true   "event ID"
// @Param        milestone_id         formData  string  true   "milestone ID"
// @Param        deskripsi            formData  string  true   "description"
// @Param        tanggal_laporan      formData  string  true   "report date"
// @Param        persentase_progress  formData  int     true   "progress percentage, 0 to 100"
// @Param        photos               formData  file    false  "photos"
// @Success      201                  {object}  MilestonePage
// @Failure      409                  {object}  response.Err
// @Failure      413                  {object}  response.Err
// @Failure      422                  {object}  response.Err
// @Router       /events/{eventID}/progress [post]
// @Security BearerAuth
func (h *ProgressHandler) HandleCreateProgress(ctx *gin.Context) {
	req, draft, ok := h.bindProgress(ctx)
	if !ok {
		return
	}

	eventID := ctx.Param("eventID")
	var milestone domain.Milestone
	err := h.submitter.Submit(formKey(ctx, "progress:new:"+eventID), func() (err error) {
		milestone, err = services(ctx, h.services).Progress.Create(ctx.Request.Context(), eventID, draft)
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleCreateProgress -> Progress.Create -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusCreated, newMilestonePage(currentSession(ctx), milestone))
}

// HandleUpdateProgress godoc
// @Summary      Update a progress report
// @Description  Only the author may. existing_photos lists the photo URLs to keep; new photos are added.
// @Tags         progress
// @Accept       multipart/form-data
// @Produce      json
// @Param        milestoneID          path      string  true   "milestone ID"
// @Param        reportID             path      string  true   "progress report ID"
// @Param        deskripsi            formData  string  true   "description"
// @Param        tanggal_laporan      formData  string  true   "report date"
// @Param        persentase_progress  formData  int     true   "progress percentage, 0 to 100"
// @Param        existing_photos      formData  string  false  "JSON list of photo URLs to keep"
// @Param        photos               formData  file    false  "new photos"
// @Success      200                  {object}  MilestonePage
// @Failure      403                  {object}  response.Err
// @Failure      422                  {object}  response.Err
// @Router       /milestones/{milestoneID}/progress/{reportID} [put]
// @Security BearerAuth
func (h *ProgressHandler) HandleUpdateProgress(ctx *gin.Context) {
	req, draft, ok := h.bindProgress(ctx)
	if !ok {
		return
	}

	milestoneID, reportID := ctx.Param("milestoneID"), ctx.Param("reportID")
	draft.MilestoneID = milestoneID

	var milestone domain.Milestone
	err := h.submitter.Submit(formKey(ctx, "progress:"+reportID), func() (err error) {
		milestone, err = services(ctx, h.services).Progress.Update(ctx.Request.Context(), milestoneID, reportID, draft)
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUpdateProgress -> Progress.Update -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusOK, newMilestonePage(currentSession(ctx), milestone))
}

// HandleDeleteProgress godoc
// @Summary      Ask to delete a progress report
// @Tags         progress
// @Produce      json
// @Param        milestoneID  path      string  true  "milestone ID"
// @Param        reportID     path      string  true  "progress report ID"
// @Success      202          {object}  flow.Pending
// @Failure      403          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Router       /milestones/{milestoneID}/progress/{reportID}/delete [post]
// @Security BearerAuth
func (h *ProgressHandler) HandleDeleteProgress(ctx *gin.Context) {
	milestoneID, reportID := ctx.Param("milestoneID"), ctx.Param("reportID")
	s := currentSession(ctx)

	report, err := services(ctx, h.services).Progress.Report(ctx.Request.Context(), milestoneID, reportID)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleDeleteProgress -> Progress.Report -> %w", err), nil)
		return
	}
	if !policy.CanEditReport(s, report) {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotReportAuthor))
		return
	}

	pending := h.gate.Request(s.UserID(),
		flow.Target{Kind: policy.KindProgressReport, ID: report.ID, ParentID: milestoneID},
		fmt.Sprintf("Are you sure you want to delete the progress report of %s?", report.ReportDate))

	ctx.JSON(http.StatusAccepted, pending)
}
