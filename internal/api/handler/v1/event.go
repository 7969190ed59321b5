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

type EventHandler struct {
	services  ServiceFactory
	submitter Submitter
	gate      ConfirmationGate
}

func NewEventHandler(services ServiceFactory, submitter Submitter, gate ConfirmationGate) *EventHandler {
	return &EventHandler{
		services:  services,
		submitter: submitter,
		gate:      gate,
	}
}

// EventPage is the event detail view with the actions the role may take.
type EventPage struct {
	service.EventDetail
	Actions map[policy.Kind]map[policy.Action]bool `json:"actions"`
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        page    query     int     false  "page number"
// @Param        limit   query     int     false  "page size"
// @Param        search  query     string  false  "search text"
// @Param        status  query     string  false  "event status"
// @Success      200     {object}  domain.Page[domain.Event]
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      502     {object}  response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	filter, ok := bindList(ctx)
	if !ok {
		return
	}

	page, err := services(ctx, h.services).Events.List(ctx.Request.Context(), filter)
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleListEvents -> Events.List -> %w", err), nil)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleGetEvent godoc
// @Summary      Event detail
// @Description  Event with its milestones, assigned petugas and latest progress reports, loaded together.
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {object}  EventPage
// @Failure      404      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	detail, err := services(ctx, h.services).Events.Detail(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleGetEvent -> Events.Detail -> %w", err), nil)
		return
	}

	role := currentSession(ctx).Role()
	ctx.JSON(http.StatusOK, EventPage{
		EventDetail: detail,
		Actions: map[policy.Kind]map[policy.Action]bool{
			policy.KindEvent:          policy.Actions(role, policy.KindEvent),
			policy.KindMilestone:      policy.Actions(role, policy.KindMilestone),
			policy.KindAssignment:     policy.Actions(role, policy.KindAssignment),
			policy.KindProgressReport: policy.Actions(role, policy.KindProgressReport),
		},
	})
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.EventRequest  true  "event"
// @Success      201      {object}  domain.Event
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.EventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var event domain.Event
	err := h.submitter.Submit(formKey(ctx, "event:new"), func() (err error) {
		event, err = services(ctx, h.services).Events.Create(ctx.Request.Context(), req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleCreateEvent -> Events.Create -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                true  "event ID"
// @Param        request  body      request.EventRequest  true  "event"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	var req request.EventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("eventID")
	var event domain.Event
	err := h.submitter.Submit(formKey(ctx, "event:"+id), func() (err error) {
		event, err = services(ctx, h.services).Events.Update(ctx.Request.Context(), id, req.ToDraft())
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUpdateEvent -> Events.Update -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEventStatus godoc
// @Summary      Change an event's status
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "event ID"
// @Param        request  body      request.EventStatusRequest  true  "status"
// @Success      200      {object}  domain.Event
// @Failure      422      {object}  response.Err
// @Router       /events/{eventID}/status [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEventStatus(ctx *gin.Context) {
	var req request.EventStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("eventID")
	var event domain.Event
	err := h.submitter.Submit(formKey(ctx, "event-status:"+id), func() (err error) {
		event, err = services(ctx, h.services).Events.UpdateStatus(ctx.Request.Context(), id, req.Status)
		return err
	})
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleUpdateEventStatus -> Events.UpdateStatus -> %w", err), req)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Ask to delete an event
// @Description  Nothing is deleted until the returned confirmation is confirmed.
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      202      {object}  flow.Pending
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/delete [post]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	event, err := services(ctx, h.services).Events.Get(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderErr(ctx, fmt.Errorf("v1.HandleDeleteEvent -> Events.Get -> %w", err), nil)
		return
	}

	pending := h.gate.Request(currentSession(ctx).UserID(),
		flow.Target{Kind: policy.KindEvent, ID: event.ID},
		fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", event.Title))

	ctx.JSON(http.StatusAccepted, pending)
}
