package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

func eventJSON(id string, status domain.EventStatus) map[string]any {
	return map[string]any{
		"id":              id,
		"nama_tender":     "Tender " + id,
		"lokasi":          "Bandung",
		"deskripsi":       "Road works",
		"budget":          1500000,
		"tanggal_mulai":   "2024-06-01T00:00:00.000Z",
		"tanggal_selesai": "2024-06-30T00:00:00.000Z",
		"status":          status,
	}
}

func TestEventListAppliesStatusFilterLocally(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))
	b.ok(http.MethodGet, "/api/events", map[string]any{
		"data": []any{
			eventJSON("e1", domain.EventCompleted),
			eventJSON("e2", domain.EventPlanning),
			eventJSON("e3", domain.EventCompleted),
		},
		"pagination": map[string]any{"total": 3, "page": 1, "limit": 10, "totalPages": 1},
	})

	page, err := svc.Events.List(context.Background(), domain.ListFilter{Page: 1, Limit: 10, Status: "completed"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	for _, e := range page.Items {
		assert.Equal(t, domain.EventCompleted, e.Status)
	}

	calls := b.called(http.MethodGet, "/api/events")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "status=completed")
	assert.Equal(t, "Bearer token-u1", calls[0].Auth)
}

func TestEventCreateReturnsStoredEvent(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))
	b.ok(http.MethodPost, "/api/events", map[string]any{"id": "e9"})
	stored := eventJSON("e9", domain.EventPlanning)
	b.ok(http.MethodGet, "/api/events/e9", stored)

	draft := domain.EventDraft{
		Title:     "Tender e9",
		Location:  "Bandung",
		Budget:    1500000,
		StartDate: domain.NewDate(2024, 6, 1),
		EndDate:   domain.NewDate(2024, 6, 30),
	}

	event, err := svc.Events.Create(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, "e9", event.ID)
	assert.Equal(t, "Tender e9", event.Title)
	assert.Equal(t, domain.NewDate(2024, 6, 30), event.EndDate)
	assert.Equal(t, domain.EventPlanning, event.Status)

	posts := b.called(http.MethodPost, "/api/events")
	require.Len(t, posts, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(posts[0].Body, &sent))
	assert.Equal(t, "Tender e9", sent["nama_tender"])
	assert.Equal(t, "2024-06-01", sent["tanggal_mulai"])
	assert.Equal(t, "planning", sent["status"])
}

func TestEventDraftRejectedBeforeDispatch(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))

	_, err := svc.Events.Create(context.Background(), domain.EventDraft{
		Title:     "Bridge",
		Location:  "Medan",
		Budget:    -1,
		StartDate: domain.NewDate(2024, 6, 30),
		EndDate:   domain.NewDate(2024, 6, 1),
	})
	require.ErrorIs(t, err, client.ErrValidation)

	e, ok := client.AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "tanggal_selesai")
	assert.Contains(t, e.Fields, "budget")
	assert.Empty(t, b.mutations())
}

func TestEventRemoveTwiceReportsNotFound(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))

	deleted := false
	b.on(http.MethodDelete, "/api/events/e1", func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		if deleted {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Event not found"})
			return
		}
		deleted = true
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Event deleted"})
	})

	require.NoError(t, svc.Events.Remove(context.Background(), "e1"))

	err := svc.Events.Remove(context.Background(), "e1")
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.EqualError(t, err, "s.client.Delete -> Event not found")
}

func TestEventUpdateStatus(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))
	b.ok(http.MethodPut, "/api/events/e1/status", nil)
	b.ok(http.MethodGet, "/api/events/e1", eventJSON("e1", domain.EventOnProgress))

	event, err := svc.Events.UpdateStatus(context.Background(), "e1", domain.EventOnProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.EventOnProgress, event.Status)

	puts := b.called(http.MethodPut, "/api/events/e1/status")
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"status":"on_progress"}`, string(puts[0].Body))

	_, err = svc.Events.UpdateStatus(context.Background(), "e1", "archived")
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Len(t, b.called(http.MethodPut, "/api/events/e1/status"), 1)
}

func TestEventDetail(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))
	b.ok(http.MethodGet, "/api/events/e1", eventJSON("e1", domain.EventOnProgress))
	b.ok(http.MethodGet, "/api/events/e1/milestones", []any{
		map[string]any{"id": "m2", "nama_milestone": "Second", "urutan": 2, "status": "pending"},
		map[string]any{"id": "m1", "nama_milestone": "First", "urutan": 1, "status": "completed"},
	})
	b.ok(http.MethodGet, "/api/events/e1/petugas", []any{
		map[string]any{"id": "a1", "event_id": "e1", "petugas_id": "p1"},
	})
	b.ok(http.MethodGet, "/api/events/e1/progress", []any{
		map[string]any{"id": "r1", "persentase_progress": 30, "tanggal_laporan": "2024-06-03"},
		map[string]any{"id": "r2", "persentase_progress": 40, "tanggal_laporan": "2024-06-05"},
	})

	detail, err := svc.Events.Detail(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, "e1", detail.Event.ID)
	require.Len(t, detail.Milestones, 2)
	assert.Equal(t, "m1", detail.Milestones[0].ID)
	assert.Len(t, detail.Assignments, 1)
	assert.Len(t, detail.RecentReports, 2)
	assert.Equal(t, 50, detail.Progress.MilestoneProgress)
	require.NotNil(t, detail.Progress.LatestProgressPercentage)
	assert.Equal(t, 40, *detail.Progress.LatestProgressPercentage)
	assert.Equal(t, 45, detail.Progress.OverallProgress)

	progress := b.called(http.MethodGet, "/api/events/e1/progress")
	require.Len(t, progress, 1)
	assert.Equal(t, "limit=5", progress[0].Query)
}

func TestEventDetailFailsAsAWhole(t *testing.T) {
	svc, b := newServices(t, signedIn("u1", domain.RoleAdmin))
	b.ok(http.MethodGet, "/api/events/e1", eventJSON("e1", domain.EventOnProgress))
	b.ok(http.MethodGet, "/api/events/e1/milestones", []any{})
	b.ok(http.MethodGet, "/api/events/e1/petugas", []any{})
	b.fail(http.MethodGet, "/api/events/e1/progress", http.StatusInternalServerError, "boom")

	detail, err := svc.Events.Detail(context.Background(), "e1")
	require.ErrorIs(t, err, client.ErrNetwork)
	assert.Empty(t, detail.Event.ID)
}

func TestEventCallsNeedASession(t *testing.T) {
	svc, b := newServices(t, staticCreds{})

	_, err := svc.Events.List(context.Background(), domain.ListFilter{})
	require.ErrorIs(t, err, client.ErrUnauthenticated)
	assert.Empty(t, b.calls)
}

func TestMyEventsKeepsAssignedOpenEventsFirst(t *testing.T) {
	svc, b := newServices(t, signedIn("p1", domain.RolePetugas))

	done := eventJSON("e1", domain.EventCompleted)
	done["assigned_petugas"] = []any{map[string]any{"petugas_id": "p1"}}
	late := eventJSON("e2", domain.EventOnProgress)
	late["tanggal_selesai"] = "2024-07-15"
	late["assigned_petugas"] = []any{map[string]any{"petugas": map[string]any{"id": "p1"}}}
	soon := eventJSON("e3", domain.EventOnProgress)
	soon["assigned_petugas"] = []any{map[string]any{"petugas_id": "p1"}}
	other := eventJSON("e4", domain.EventPlanning)
	other["assigned_petugas"] = []any{map[string]any{"petugas_id": "p2"}}

	b.ok(http.MethodGet, "/api/events", []any{done, late, soon, other})

	events, err := svc.Events.MyEvents(context.Background(), "p1")
	require.NoError(t, err)

	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e3", "e2", "e1"}, ids)
}
