package service

import (
	"bytes"
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

func milestoneWithReport(authorID string) map[string]any {
	return map[string]any{
		"id":       "m1",
		"event_id": "e1",
		"urutan":   1,
		"progress_reports": []any{
			map[string]any{
				"id":                  "r1",
				"deskripsi":           "Foundation poured",
				"persentase_progress": 40,
				"tanggal_laporan":     "2024-06-03",
				"foto_progress":       []string{"/uploads/a.jpg", "/uploads/b.jpg"},
				"petugas":             map[string]any{"id": authorID, "nama_lengkap": "Budi"},
			},
		},
	}
}

func TestProgressOutOfRangeRejectedBeforeDispatch(t *testing.T) {
	svc, b := newServices(t, signedIn("p1", domain.RolePetugas))

	_, err := svc.Progress.Create(context.Background(), "e1", domain.ProgressDraft{
		MilestoneID: "m1",
		Description: "Done twice over",
		ReportDate:  domain.NewDate(2024, 6, 3),
		Percent:     150,
	})
	require.ErrorIs(t, err, client.ErrValidation)

	e, ok := client.AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "persentase_progress")
	assert.Empty(t, b.calls)
}

func TestProgressCreateSendsMultipart(t *testing.T) {
	svc, b := newServices(t, signedIn("p1", domain.RolePetugas))

	b.on(http.MethodPost, "/api/events/e1/progress", func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": "r2"}})
	})
	b.ok(http.MethodGet, "/api/milestones/m1", milestoneWithReport("p1"))

	milestone, err := svc.Progress.Create(context.Background(), "e1", domain.ProgressDraft{
		MilestoneID: "m1",
		Description: "Walls up",
		ReportDate:  domain.NewDate(2024, 6, 4),
		Percent:     60,
		Photos: []domain.Attachment{
			{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-a")},
			{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-b")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", milestone.ID)

	posts := b.called(http.MethodPost, "/api/events/e1/progress")
	require.Len(t, posts, 1)
	fields, photos := readMultipart(t, posts[0])

	assert.Equal(t, []string{"m1"}, fields["milestone_id"])
	assert.Equal(t, []string{"60"}, fields["persentase_progress"])
	assert.Equal(t, []string{"2024-06-04"}, fields["tanggal_laporan"])
	assert.NotContains(t, fields, "existing_photos")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, photos)
}

func TestProgressCreateRefusesMilestoneOfAnotherEvent(t *testing.T) {
	svc, b := newServices(t, signedIn("p1", domain.RolePetugas))
	b.ok(http.MethodGet, "/api/milestones/m1", milestoneWithReport("p1"))

	_, err := svc.Progress.Create(context.Background(), "e2", domain.ProgressDraft{
		MilestoneID: "m1",
		Description: "Walls up",
		ReportDate:  domain.NewDate(2024, 6, 4),
		Percent:     60,
	})
	require.ErrorIs(t, err, client.ErrValidation)

	e, ok := client.AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "milestone_id")
	assert.Empty(t, b.mutations())
}

func TestProgressUpdateByAuthor(t *testing.T) {
	svc, b := newServices(t, signedIn("p1", domain.RolePetugas))
	b.ok(http.MethodGet, "/api/milestones/m1", milestoneWithReport("p1"))
	b.ok(http.MethodPut, "/api/progress-reports/r1", nil)

	_, err := svc.Progress.Update(context.Background(), "m1", "r1", domain.ProgressDraft{
		Description:    "Foundation cured",
		ReportDate:     domain.NewDate(2024, 6, 5),
		Percent:        45,
		RetainedPhotos: []string{"/uploads/b.jpg"},
	})
	require.NoError(t, err)

	puts := b.called(http.MethodPut, "/api/progress-reports/r1")
	require.Len(t, puts, 1)
	fields, photos := readMultipart(t, puts[0])
	assert.Equal(t, []string{`["/uploads/b.jpg"]`}, fields["existing_photos"])
	assert.NotContains(t, fields, "milestone_id")
	assert.Empty(t, photos)
}

func TestProgressChangesByOthersAreRefused(t *testing.T) {
	svc, b := newServices(t, signedIn("p2", domain.RolePetugas))
	b.ok(http.MethodGet, "/api/milestones/m1", milestoneWithReport("p1"))

	_, err := svc.Progress.Update(context.Background(), "m1", "r1", domain.ProgressDraft{
		Description: "Not mine",
		ReportDate:  domain.NewDate(2024, 6, 5),
		Percent:     10,
	})
	require.ErrorIs(t, err, client.ErrForbidden)

	_, err = svc.Progress.Remove(context.Background(), "m1", "r1")
	require.ErrorIs(t, err, client.ErrForbidden)

	_, err = svc.Progress.Remove(context.Background(), "m1", "missing")
	require.ErrorIs(t, err, client.ErrNotFound)

	assert.Empty(t, b.mutations())
}

func readMultipart(t *testing.T, c call) (map[string][]string, []string) {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(c.ContentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(bytes.NewReader(c.Body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	var photos []string
	for _, fh := range form.File["photos"] {
		photos = append(photos, fh.Filename)
	}

	return form.Value, photos
}
