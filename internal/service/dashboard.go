package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/aggregate"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
)

const (
	summaryLimit    = 5
	activitiesLimit = 10
)

type DashboardService struct {
	client *client.Client
	now    func() time.Time
}

func NewDashboardService(c *client.Client, now func() time.Time) *DashboardService {
	return &DashboardService{
		client: c,
		now:    now,
	}
}

type Overview struct {
	Stats            domain.DashboardStats   `json:"stats"`
	EventsSummary    []domain.EventSummary   `json:"events_summary"`
	RecentActivities []domain.ProgressReport `json:"recent_activities"`
}

// Overview loads the admin dashboard. Statistics and progress figures are
// computed here from the source entities rather than taken from the backend.
func (s *DashboardService) Overview(ctx context.Context) (Overview, error) {
	var (
		events     []domain.Event
		users      domain.Page[domain.User]
		summary    []domain.Event
		activities []domain.ProgressReport
	)

	err := flow.Batch(ctx,
		func(ctx context.Context) (err error) {
			events, err = listAll[domain.Event](ctx, s.client, "/events", domain.ListFilter{})
			return err
		},
		func(ctx context.Context) (err error) {
			users, err = client.List[domain.User](ctx, s.client, "/users", domain.ListFilter{Page: 1, Limit: 1})
			return err
		},
		func(ctx context.Context) error {
			page, err := client.List[domain.Event](ctx, s.client, "/dashboard/events-summary", domain.ListFilter{Limit: summaryLimit})
			summary = page.Items
			return err
		},
		func(ctx context.Context) error {
			page, err := client.List[domain.ProgressReport](ctx, s.client, "/dashboard/recent-activities", domain.ListFilter{Limit: activitiesLimit})
			activities = page.Items
			return err
		},
	)
	if err != nil {
		return Overview{}, fmt.Errorf("flow.Batch -> %w", err)
	}

	stats := aggregate.DashboardStats(events, s.now())
	stats.TotalUsers = users.Pagination.Total

	if len(summary) > summaryLimit {
		summary = summary[:summaryLimit]
	}
	if len(activities) > activitiesLimit {
		activities = activities[:activitiesLimit]
	}

	return Overview{
		Stats:            stats,
		EventsSummary:    aggregate.Summaries(summary),
		RecentActivities: activities,
	}, nil
}
