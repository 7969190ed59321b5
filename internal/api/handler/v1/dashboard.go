package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type DashboardHandler struct {
	services ServiceFactory
}

func NewDashboardHandler(services ServiceFactory) *DashboardHandler {
	return &DashboardHandler{
		services: services,
	}
}

// HandleOverview godoc
// @Summary      Admin dashboard
// @Description  Event statistics, the latest event summaries and recent progress activity.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.Overview
// @Failure      403  {object}  response.Err
// @Failure      502  {object}  response.Err
// @Router       /dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleOverview(ctx *gin.Context) {
	overview, err := services(ctx, h.services).Dashboard.Overview(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleOverview -> Dashboard.Overview -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

// HandleMonitoring godoc
// @Summary      Supervisor monitoring
// @Description  Every event with its recomputed progress.
// @Tags         dashboard
// @Produce      json
// @Param        status  query     string  false  "event status"
// @Success      200     {array}   domain.EventSummary
// @Failure      403     {object}  response.Err
// @Router       /monitoring [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleMonitoring(ctx *gin.Context) {
	status := domain.EventStatus(ctx.Query("status"))
	if status != "" && !status.Valid() {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("unknown status %q", status)))
		return
	}

	summaries, err := services(ctx, h.services).Events.Monitoring(ctx.Request.Context(), status)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleMonitoring -> Events.Monitoring -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, summaries)
}

// HandleMyEvents godoc
// @Summary      Petugas work queue
// @Description  Events assigned to the signed-in petugas, open ones first.
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   domain.EventSummary
// @Failure      403  {object}  response.Err
// @Router       /my-events [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleMyEvents(ctx *gin.Context) {
	summaries, err := services(ctx, h.services).Events.MyEvents(ctx.Request.Context(), currentSession(ctx).UserID())
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleMyEvents -> Events.MyEvents -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, summaries)
}
