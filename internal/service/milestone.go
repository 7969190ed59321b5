package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
)

type MilestoneService struct {
	client *client.Client
	events *EventService
}

func NewMilestoneService(c *client.Client, events *EventService) *MilestoneService {
	return &MilestoneService{
		client: c,
		events: events,
	}
}

// ListByEvent returns the event's milestones ordered by urutan.
func (s *MilestoneService) ListByEvent(ctx context.Context, eventID string) ([]domain.Milestone, error) {
	return milestonesOf(ctx, s.client, eventID)
}

func milestonesOf(ctx context.Context, c *client.Client, eventID string) ([]domain.Milestone, error) {
	page, err := client.List[domain.Milestone](ctx, c, resourcePath("events", eventID, "milestones"), domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("client.List -> %w", err)
	}

	milestones := page.Items
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Order < milestones[j].Order
	})

	return milestones, nil
}

// Get returns the milestone with its event and progress reports.
func (s *MilestoneService) Get(ctx context.Context, id string) (domain.Milestone, error) {
	var milestone domain.Milestone
	if err := s.client.Get(ctx, resourcePath("milestones", id), nil, &milestone); err != nil {
		return domain.Milestone{}, fmt.Errorf("s.client.Get -> %w", err)
	}
	if milestone.EventID == "" && milestone.Event != nil {
		milestone.EventID = milestone.Event.ID
	}

	return milestone, nil
}

// NextOrder is the urutan a new milestone gets when none was given.
func NextOrder(milestones []domain.Milestone) int {
	next := len(milestones) + 1
	for _, m := range milestones {
		if m.Order >= next {
			next = m.Order + 1
		}
	}

	return next
}

// MilestoneChange is a mutated milestone together with its event's
// refreshed milestone list.
type MilestoneChange struct {
	Milestone  domain.Milestone   `json:"milestone"`
	Milestones []domain.Milestone `json:"milestones"`
}

func (s *MilestoneService) Create(ctx context.Context, eventID string, draft domain.MilestoneDraft) (MilestoneChange, error) {
	var (
		event    domain.Event
		existing []domain.Milestone
	)
	err := flow.Batch(ctx,
		func(ctx context.Context) (err error) {
			event, err = s.events.Get(ctx, eventID)
			return err
		},
		func(ctx context.Context) (err error) {
			existing, err = milestonesOf(ctx, s.client, eventID)
			return err
		},
	)
	if err != nil {
		return MilestoneChange{}, fmt.Errorf("flow.Batch -> %w", err)
	}

	if draft.Order == 0 {
		draft.Order = NextOrder(existing)
	}
	if draft.Status == "" {
		draft.Status = domain.MilestonePending
	}
	if err = client.FromValidation(validateMilestone(draft, event)); err != nil {
		return MilestoneChange{}, err
	}

	var created domain.Milestone
	if err = s.client.Post(ctx, resourcePath("events", eventID, "milestones"), draft, &created); err != nil {
		return MilestoneChange{}, fmt.Errorf("s.client.Post -> %w", err)
	}

	return s.refresh(ctx, eventID, created.ID)
}

func (s *MilestoneService) Update(ctx context.Context, id string, draft domain.MilestoneDraft) (MilestoneChange, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return MilestoneChange{}, err
	}
	event, err := s.events.Get(ctx, current.EventID)
	if err != nil {
		return MilestoneChange{}, err
	}

	if draft.Order == 0 {
		draft.Order = current.Order
	}
	if draft.Status == "" {
		draft.Status = current.Status
	}
	if err = client.FromValidation(validateMilestone(draft, event)); err != nil {
		return MilestoneChange{}, err
	}

	if err = s.client.Put(ctx, resourcePath("milestones", id), draft, nil); err != nil {
		return MilestoneChange{}, fmt.Errorf("s.client.Put -> %w", err)
	}

	return s.refresh(ctx, current.EventID, id)
}

// Remove deletes the milestone and returns its event's remaining milestones.
func (s *MilestoneService) Remove(ctx context.Context, id string) ([]domain.Milestone, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = s.client.Delete(ctx, resourcePath("milestones", id)); err != nil {
		return nil, fmt.Errorf("s.client.Delete -> %w", err)
	}

	return milestonesOf(ctx, s.client, current.EventID)
}

func (s *MilestoneService) refresh(ctx context.Context, eventID, id string) (MilestoneChange, error) {
	var change MilestoneChange
	err := flow.Batch(ctx,
		func(ctx context.Context) (err error) {
			change.Milestone, err = s.Get(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			change.Milestones, err = milestonesOf(ctx, s.client, eventID)
			return err
		},
	)
	if err != nil {
		return MilestoneChange{}, fmt.Errorf("flow.Batch -> %w", err)
	}

	return change, nil
}
