package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

var roles = []domain.Role{domain.RoleAdmin, domain.RoleSupervisor, domain.RolePetugas}

func TestAllowedViewsNonEmptyAndFromTable(t *testing.T) {
	for _, role := range roles {
		t.Run(string(role), func(t *testing.T) {
			views := AllowedViews(role)
			require.NotEmpty(t, views)

			for _, v := range views {
				assert.Contains(t, table[role].views, v)
				assert.True(t, CanView(role, v))
			}

			landing, ok := LandingView(role)
			require.True(t, ok)
			assert.Contains(t, views, landing)
		})
	}
}

func TestAllowedViewsReturnsCopy(t *testing.T) {
	views := AllowedViews(domain.RoleAdmin)
	views[0] = "tampered"

	assert.Equal(t, ViewDashboard, AllowedViews(domain.RoleAdmin)[0])
}

func TestUnknownRole(t *testing.T) {
	role := domain.Role("guest")

	assert.Empty(t, AllowedViews(role))
	assert.Empty(t, Navigation(role))
	assert.False(t, CanMutate(role, KindEvent, ActionCreate))

	_, ok := LandingView(role)
	assert.False(t, ok)
}

func TestLandingView(t *testing.T) {
	tests := []struct {
		role domain.Role
		want View
	}{
		{domain.RolePetugas, ViewMyEvents},
		{domain.RoleAdmin, ViewDashboard},
		{domain.RoleSupervisor, ViewMonitoring},
	}

	for _, tt := range tests {
		got, ok := LandingView(tt.role)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, tt.role)
	}
}

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name   string
		role   domain.Role
		kind   Kind
		action Action
		want   bool
	}{
		{"admin creates event", domain.RoleAdmin, KindEvent, ActionCreate, true},
		{"admin deletes milestone", domain.RoleAdmin, KindMilestone, ActionDelete, true},
		{"admin updates user", domain.RoleAdmin, KindUser, ActionUpdate, true},
		{"admin assigns petugas", domain.RoleAdmin, KindAssignment, ActionCreate, true},
		{"admin cannot update assignment", domain.RoleAdmin, KindAssignment, ActionUpdate, false},
		{"admin cannot file reports", domain.RoleAdmin, KindProgressReport, ActionCreate, false},
		{"supervisor is read only on events", domain.RoleSupervisor, KindEvent, ActionUpdate, false},
		{"supervisor is read only on milestones", domain.RoleSupervisor, KindMilestone, ActionCreate, false},
		{"supervisor cannot unassign", domain.RoleSupervisor, KindAssignment, ActionDelete, false},
		{"petugas files reports", domain.RolePetugas, KindProgressReport, ActionCreate, true},
		{"petugas deletes reports", domain.RolePetugas, KindProgressReport, ActionDelete, true},
		{"petugas cannot touch events", domain.RolePetugas, KindEvent, ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.role, tt.kind, tt.action))
		})
	}
}

func TestNavigationFollowsViews(t *testing.T) {
	for _, role := range roles {
		for _, item := range Navigation(role) {
			assert.True(t, CanView(role, item.View), "%s sees %s", role, item.View)
		}
	}

	titles := func(items []NavItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Title)
		}
		return out
	}
	assert.Equal(t, []string{"Dashboard", "Events", "Users", "Reports"}, titles(Navigation(domain.RoleAdmin)))
	assert.Equal(t, []string{"Event Monitoring", "Reports"}, titles(Navigation(domain.RoleSupervisor)))
	assert.Equal(t, []string{"My Events"}, titles(Navigation(domain.RolePetugas)))
}

func TestCanEditReport(t *testing.T) {
	author := domain.Session{User: domain.User{ID: "u-1", Role: domain.RolePetugas}}
	other := domain.Session{User: domain.User{ID: "u-2", Role: domain.RolePetugas}}
	admin := domain.Session{User: domain.User{ID: "u-1", Role: domain.RoleAdmin}}
	report := domain.ProgressReport{ID: "r-1", AuthorID: "u-1"}

	assert.True(t, CanEditReport(author, report))
	assert.False(t, CanEditReport(other, report))
	assert.False(t, CanEditReport(admin, report))
	assert.False(t, CanEditReport(author, domain.ProgressReport{ID: "r-2"}))
}

func TestActions(t *testing.T) {
	got := Actions(domain.RoleAdmin, KindAssignment)

	assert.Equal(t, map[Action]bool{ActionCreate: true, ActionUpdate: false, ActionDelete: true}, got)
}
