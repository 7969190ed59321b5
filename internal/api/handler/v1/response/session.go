package response

import (
	"time"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

// SessionResponse describes the signed-in user and what the dashboard
// offers them.
type SessionResponse struct {
	User       domain.User      `json:"user"`
	Landing    policy.View      `json:"landing"`
	Views      []policy.View    `json:"views"`
	Navigation []policy.NavItem `json:"navigation"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
}

func NewSessionResponse(s domain.Session) SessionResponse {
	landing, _ := policy.LandingView(s.Role())

	resp := SessionResponse{
		User:       s.User,
		Landing:    landing,
		Views:      policy.AllowedViews(s.Role()),
		Navigation: policy.Navigation(s.Role()),
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		resp.ExpiresAt = &exp
	}

	return resp
}

// Deleted is returned once a confirmed removal went through, together with
// the refreshed collection the removed item belonged to.
type Deleted struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Data    any    `json:"data,omitempty"`
}
