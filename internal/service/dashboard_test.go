package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

func TestDashboardOverviewRecomputes(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))

	overdue := eventJSON("e1", domain.EventOnProgress)
	overdue["tanggal_selesai"] = "2024-05-20"
	soon := eventJSON("e2", domain.EventPlanning)
	soon["tanggal_selesai"] = "2024-06-05"
	b.ok(http.MethodGet, "/api/events", map[string]any{
		"data":       []any{overdue, soon, eventJSON("e3", domain.EventCompleted)},
		"pagination": map[string]any{"total": 3, "page": 1, "limit": 100, "totalPages": 1},
	})
	b.ok(http.MethodGet, "/api/users", map[string]any{
		"data":       []any{map[string]any{"id": "u1"}},
		"pagination": map[string]any{"total": 12, "page": 1, "limit": 1, "totalPages": 12},
	})

	summary := eventJSON("e1", domain.EventOnProgress)
	summary["milestones"] = []any{
		map[string]any{"id": "m1", "status": "completed"},
		map[string]any{"id": "m2", "status": "completed"},
		map[string]any{"id": "m3", "status": "pending"},
		map[string]any{"id": "m4", "status": "pending"},
	}
	summary["progress_reports"] = []any{
		map[string]any{"id": "r1", "persentase_progress": 80, "tanggal_laporan": "2024-05-30"},
	}
	// The backend's own progress figure is ignored.
	summary["progress"] = map[string]any{"overall_progress": 99}
	b.ok(http.MethodGet, "/api/dashboard/events-summary", []any{summary})
	b.ok(http.MethodGet, "/api/dashboard/recent-activities", []any{
		map[string]any{"id": "r1", "description": "Piling", "persentase_progress": 80, "user": map[string]any{"id": "p1"}},
	})

	overview, err := svc.Dashboard.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Stats.Events.Total)
	assert.Equal(t, 1, overview.Stats.Events.ByStatus[domain.EventCompleted])
	assert.Equal(t, 12, overview.Stats.TotalUsers)
	assert.Equal(t, 1, overview.Stats.OverdueEvents)
	assert.Equal(t, 1, overview.Stats.EventsNearDeadline)

	require.Len(t, overview.EventsSummary, 1)
	assert.Equal(t, 65, overview.EventsSummary[0].Progress.OverallProgress)

	require.Len(t, overview.RecentActivities, 1)
	assert.Equal(t, "Piling", overview.RecentActivities[0].Description)
	assert.Equal(t, "p1", overview.RecentActivities[0].AuthorID)

	activities := b.called(http.MethodGet, "/api/dashboard/recent-activities")
	require.Len(t, activities, 1)
	assert.Equal(t, "limit=10", activities[0].Query)
}
