package client

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type sessionOf struct {
	session *domain.Session
}

func (s sessionOf) Current() (domain.Session, bool) {
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

var signedIn = sessionOf{session: &domain.Session{Credential: "tok", User: domain.User{ID: "u1", Role: domain.RoleAdmin}}}

func TestDecodeFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"flat object", `{"email":"is taken"}`, map[string]string{"email": "is taken"}},
		{"object of lists", `{"email":["is taken","is too long"],"username":[]}`, map[string]string{"email": "is taken"}},
		{"list with field", `[{"field":"budget","message":"must be positive"}]`, map[string]string{"budget": "must be positive"}},
		{"list with path", `[{"path":"tanggal_mulai","message":"is required"}]`, map[string]string{"tanggal_mulai": "is required"}},
		{"null", `null`, nil},
		{"empty", ``, nil},
		{"unknown shape", `"bad input"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeFields(json.RawMessage(tt.raw)))
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantData    string
		wantKind    error
		wantStatus  int
		wantMessage string
		wantFields  map[string]string
	}{
		{
			name: "data", status: http.StatusOK,
			body:     `{"success":true,"data":{"id":"e1"}}`,
			wantData: `{"id":"e1"}`,
		},
		{name: "no content", status: http.StatusNoContent, body: ``},
		{name: "blank body", status: http.StatusOK, body: " \n"},
		{
			name: "success false on 200", status: http.StatusOK,
			body:     `{"success":false,"message":"Username already exists","errors":{"username":"already exists"}}`,
			wantKind: ErrValidation, wantStatus: http.StatusUnprocessableEntity,
			wantMessage: "Username already exists", wantFields: map[string]string{"username": "already exists"},
		},
		{
			name: "field errors on 400", status: http.StatusBadRequest,
			body:     `{"success":false,"message":"Validation failed","errors":[{"field":"email","message":"is invalid"}]}`,
			wantKind: ErrValidation, wantStatus: http.StatusUnprocessableEntity,
			wantMessage: "Validation failed", wantFields: map[string]string{"email": "is invalid"},
		},
		{
			name: "expired token", status: http.StatusUnauthorized, body: `{}`,
			wantKind: ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantMessage: msgUnauthenticated,
		},
		{
			name: "missing record", status: http.StatusNotFound, body: `{"success":false,"message":"Event not found"}`,
			wantKind: ErrNotFound, wantStatus: http.StatusNotFound, wantMessage: "Event not found",
		},
		{
			name: "server error", status: http.StatusInternalServerError, body: `<html>oops</html>`,
			wantKind: ErrNetwork, wantStatus: http.StatusBadGateway, wantMessage: msgNetwork,
		},
		{
			name: "unreadable 200", status: http.StatusOK, body: `<html>proxy</html>`,
			wantKind: ErrNetwork, wantStatus: http.StatusBadGateway, wantMessage: msgNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := decodeResponse(tt.status, []byte(tt.body))

			if tt.wantKind == nil {
				require.NoError(t, err)
				if tt.wantData == "" {
					assert.Empty(t, data)
				} else {
					assert.JSONEq(t, tt.wantData, string(data))
				}
				return
			}

			require.ErrorIs(t, err, tt.wantKind)
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, e.Status)
			assert.Equal(t, tt.wantMessage, e.Message)
			assert.Equal(t, tt.wantFields, e.Fields)
		})
	}
}

func TestDecodeList(t *testing.T) {
	filter := domain.ListFilter{Page: 2, Limit: 5}

	tests := []struct {
		name      string
		raw       string
		wantIDs   []string
		wantTotal int
		wantPage  int
	}{
		{"null", `null`, []string{}, 0, 1},
		{"bare array", `[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}, 2, 1},
		{"paged", `{"data":[{"id":"c"}],"pagination":{"total":6,"page":2,"limit":5,"totalPages":2}}`, []string{"c"}, 6, 2},
		{"paged with null data", `{"data":null,"pagination":{"total":0,"page":2,"limit":5,"totalPages":0}}`, []string{}, 0, 2},
		{"wrapped without pagination", `{"data":[{"id":"d"}]}`, []string{"d"}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeList[domain.User](json.RawMessage(tt.raw))
			require.NoError(t, err)

			page := result.Page(filter)
			ids := make([]string, 0, len(page.Items))
			for _, u := range page.Items {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.NotNil(t, page.Items)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
		})
	}

	for _, raw := range []string{`42`, `"events"`, `{"data":"nope"}`} {
		_, err := DecodeList[domain.User](json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestClientSendsCredential(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"e1","nama_tender":"Jalan"}}`)
	}))
	t.Cleanup(srv.Close)

	var event domain.Event
	require.NoError(t, New(srv.Client(), srv.URL, signedIn).Get(context.Background(), "/events/e1", nil, &event))

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "Jalan", event.Title)
}

func TestClientWithoutSessionDoesNotCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	err := New(srv.Client(), srv.URL, sessionOf{}).Delete(context.Background(), "/events/e1")
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, called)
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	httpClient := srv.Client()
	httpClient.Timeout = 20 * time.Millisecond

	err := New(httpClient, srv.URL, signedIn).Get(context.Background(), "/events", nil, nil)
	require.ErrorIs(t, err, ErrNetwork)

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.Equal(t, msgNetwork, e.Message)
}

func TestMultipartEscapesFilenames(t *testing.T) {
	m := (&Multipart{}).
		Field("deskripsi", "Roof").
		File(photoField, domain.Attachment{Filename: `site "north"\roof.jpg`, ContentType: "image/jpeg", Data: []byte("jpeg")})

	body, contentType, err := m.Encode()
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	r := multipart.NewReader(body, params["boundary"])

	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "deskripsi", part.FormName())

	part, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, photoField, part.FormName())
	assert.Equal(t, `site "north"\roof.jpg`, part.FileName())
	assert.Equal(t, "image/jpeg", part.Header.Get("Content-Type"))
}
