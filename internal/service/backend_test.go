package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type call struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Auth        string
	Body        []byte
}

type route func(w http.ResponseWriter, r *http.Request, body []byte)

// backend is a scripted tender API that records every call it receives.
type backend struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]route
	calls  []call
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()

	b := &backend{t: t, routes: make(map[string]route)}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)

	return b, srv
}

func (b *backend) on(method, path string, r route) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.routes[method+" "+path] = r
}

// ok answers with {success: true, data}.
func (b *backend) ok(method, path string, data any) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
	})
}

func (b *backend) fail(method, path string, status int, message string) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, status, map[string]any{"success": false, "message": message})
	})
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, call{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})
	handler, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "route not found"})
		return
	}
	handler(w, r, body)
}

func (b *backend) called(method, path string) []call {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}

	return out
}

func (b *backend) mutations() []call {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []call
	for _, c := range b.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type staticCreds struct {
	session *domain.Session
}

func (s staticCreds) Current() (domain.Session, bool) {
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func signedIn(id string, role domain.Role) staticCreds {
	return staticCreds{session: &domain.Session{
		Credential: "token-" + id,
		User:       domain.User{ID: id, Role: role, FullName: "User " + id},
	}}
}

func newServices(t *testing.T, creds staticCreds) (*Services, *backend) {
	t.Helper()

	b, srv := newBackend(t)
	f := NewFactory(srv.Client(), srv.URL+"/api", func() time.Time { return fixedNow })

	return f.For(creds), b
}
