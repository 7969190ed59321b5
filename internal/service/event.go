package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/aggregate"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
)

const (
	recentReportsLimit = 5
	// Upper bound on pages walked when a view needs every event.
	maxListPages = 50
	listAllLimit = 100
)

type EventService struct {
	client *client.Client
}

func NewEventService(c *client.Client) *EventService {
	return &EventService{
		client: c,
	}
}

// List returns one page of events. A status filter is enforced on the
// returned items whatever the backend did with it.
func (s *EventService) List(ctx context.Context, filter domain.ListFilter) (domain.Page[domain.Event], error) {
	page, err := client.List[domain.Event](ctx, s.client, "/events", filter)
	if err != nil {
		return domain.Page[domain.Event]{}, fmt.Errorf("client.List -> %w", err)
	}

	if filter.Status != "" {
		kept := filterByStatus(page.Items, domain.EventStatus(filter.Status))
		if len(kept) != len(page.Items) {
			zap.L().Debug("backend ignored the status filter",
				zap.String("status", filter.Status),
				zap.Int("received", len(page.Items)),
				zap.Int("kept", len(kept)))
		}
		page.Items = kept
	}

	return page, nil
}

func filterByStatus(events []domain.Event, status domain.EventStatus) []domain.Event {
	kept := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Status == status {
			kept = append(kept, e)
		}
	}

	return kept
}

// All walks every page of the event list.
func (s *EventService) All(ctx context.Context) ([]domain.Event, error) {
	return listAll[domain.Event](ctx, s.client, "/events", domain.ListFilter{})
}

func listAll[T any](ctx context.Context, c *client.Client, path string, filter domain.ListFilter) ([]T, error) {
	var items []T
	filter.Limit = listAllLimit
	for p := 1; p <= maxListPages; p++ {
		filter.Page = p
		page, err := client.List[T](ctx, c, path, filter)
		if err != nil {
			return nil, fmt.Errorf("client.List page %d -> %w", p, err)
		}

		items = append(items, page.Items...)
		if len(page.Items) == 0 || p >= page.Pagination.TotalPages {
			break
		}
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	var event domain.Event
	if err := s.client.Get(ctx, resourcePath("events", id), nil, &event); err != nil {
		return domain.Event{}, fmt.Errorf("s.client.Get -> %w", err)
	}

	return event, nil
}

// Create validates the draft, creates the event and returns it as stored.
func (s *EventService) Create(ctx context.Context, draft domain.EventDraft) (domain.Event, error) {
	if draft.Status == "" {
		draft.Status = domain.EventPlanning
	}
	if err := client.FromValidation(validateEvent(draft)); err != nil {
		return domain.Event{}, err
	}

	var created domain.Event
	if err := s.client.Post(ctx, "/events", draft, &created); err != nil {
		return domain.Event{}, fmt.Errorf("s.client.Post -> %w", err)
	}

	return s.Get(ctx, created.ID)
}

func (s *EventService) Update(ctx context.Context, id string, draft domain.EventDraft) (domain.Event, error) {
	if err := client.FromValidation(validateEvent(draft)); err != nil {
		return domain.Event{}, err
	}

	if err := s.client.Put(ctx, resourcePath("events", id), draft, nil); err != nil {
		return domain.Event{}, fmt.Errorf("s.client.Put -> %w", err)
	}

	return s.Get(ctx, id)
}

type statusPayload struct {
	Status domain.EventStatus `json:"status"`
}

func (s *EventService) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	if !status.Valid() {
		return domain.Event{}, client.FieldError("status", fmt.Sprintf("must be one of %v", domain.EventStatuses))
	}

	if err := s.client.Put(ctx, resourcePath("events", id, "status"), statusPayload{Status: status}, nil); err != nil {
		return domain.Event{}, fmt.Errorf("s.client.Put -> %w", err)
	}

	return s.Get(ctx, id)
}

// Remove deletes the event. Removing an event that is already gone fails
// with client.ErrNotFound.
func (s *EventService) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, resourcePath("events", id)); err != nil {
		return fmt.Errorf("s.client.Delete -> %w", err)
	}

	return nil
}

type EventDetail struct {
	Event         domain.Event            `json:"event"`
	Milestones    []domain.Milestone      `json:"milestones"`
	Assignments   []domain.Assignment     `json:"assigned_petugas"`
	RecentReports []domain.ProgressReport `json:"recent_progress"`
	Progress      domain.EventProgress    `json:"progress"`
}

// Detail loads everything the event page shows in one all-or-nothing batch.
func (s *EventService) Detail(ctx context.Context, id string) (EventDetail, error) {
	var (
		event       domain.Event
		milestones  []domain.Milestone
		assignments []domain.Assignment
		reports     []domain.ProgressReport
	)

	err := flow.Batch(ctx,
		func(ctx context.Context) (err error) {
			event, err = s.Get(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			milestones, err = milestonesOf(ctx, s.client, id)
			return err
		},
		func(ctx context.Context) (err error) {
			assignments, err = assignmentsOf(ctx, s.client, id)
			return err
		},
		func(ctx context.Context) (err error) {
			reports, err = progressOf(ctx, s.client, id, recentReportsLimit)
			return err
		},
	)
	if err != nil {
		return EventDetail{}, fmt.Errorf("flow.Batch -> %w", err)
	}

	return EventDetail{
		Event:         event,
		Milestones:    milestones,
		Assignments:   assignments,
		RecentReports: reports,
		Progress:      aggregate.Progress(milestones, reports),
	}, nil
}

// MyEvents is the petugas work queue: open events assigned to the user,
// nearest end date first.
func (s *EventService) MyEvents(ctx context.Context, petugasID string) ([]domain.EventSummary, error) {
	events, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.All -> %w", err)
	}

	mine := make([]domain.Event, 0, len(events))
	for _, e := range events {
		// Events listed without assignments were already scoped by the backend.
		if len(e.AssignedPetugas) > 0 && !e.AssignedTo(petugasID) {
			continue
		}
		mine = append(mine, e)
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if mine[i].Status.Closed() != mine[j].Status.Closed() {
			return !mine[i].Status.Closed()
		}
		return mine[i].EndDate.Before(mine[j].EndDate)
	})

	return aggregate.Summaries(mine), nil
}

// Monitoring is the supervisor's read-only view of every event's progress.
func (s *EventService) Monitoring(ctx context.Context, status domain.EventStatus) ([]domain.EventSummary, error) {
	events, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.All -> %w", err)
	}
	if status != "" {
		events = filterByStatus(events, status)
	}

	return aggregate.Summaries(events), nil
}

func progressOf(ctx context.Context, c *client.Client, eventID string, limit int) ([]domain.ProgressReport, error) {
	page, err := client.List[domain.ProgressReport](ctx, c, resourcePath("events", eventID, "progress"), domain.ListFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("client.List -> %w", err)
	}

	return page.Items, nil
}
