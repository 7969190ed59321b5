// Package service holds the resource controllers. Each one validates drafts
// before dispatch, calls the tender backend and re-fetches what it changed.
package service

import (
	"net/http"
	"net/url"
	"time"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
)

// Factory builds controllers bound to one request's session.
type Factory struct {
	http    *http.Client
	baseURL string
	now     func() time.Time
}

func NewFactory(httpClient *http.Client, baseURL string, now func() time.Time) *Factory {
	if now == nil {
		now = time.Now
	}

	return &Factory{
		http:    httpClient,
		baseURL: baseURL,
		now:     now,
	}
}

// Services is the set of controllers for one signed-in session.
type Services struct {
	Events      *EventService
	Milestones  *MilestoneService
	Progress    *ProgressService
	Assignments *AssignmentService
	Users       *UserService
	Dashboard   *DashboardService
}

func (f *Factory) For(creds client.CredentialSource) *Services {
	c := client.New(f.http, f.baseURL, creds)

	events := NewEventService(c)
	milestones := NewMilestoneService(c, events)

	return &Services{
		Events:      events,
		Milestones:  milestones,
		Progress:    NewProgressService(c, creds, milestones),
		Assignments: NewAssignmentService(c),
		Users:       NewUserService(c),
		Dashboard:   NewDashboardService(c, f.now),
	}
}

// Auth returns the authenticator used by session stores.
func (f *Factory) Auth() *AuthService {
	return NewAuthService(client.New(f.http, f.baseURL, nil))
}

func resourcePath(parts ...string) string {
	path := ""
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}

	return path
}
