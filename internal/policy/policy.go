// Package policy is the single table deciding which views a role may open
// and which mutations it may issue. Navigation, route guards and page
// actions all read from here.
package policy

import "github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"

type View string

const (
	ViewDashboard       View = "dashboard"
	ViewEvents          View = "events"
	ViewEventDetail     View = "event_detail"
	ViewMilestoneDetail View = "milestone_detail"
	ViewUsers           View = "users"
	ViewReports         View = "reports"
	ViewMonitoring      View = "monitoring"
	ViewMyEvents        View = "my_events"
)

type Kind string

const (
	KindEvent          Kind = "event"
	KindMilestone      Kind = "milestone"
	KindProgressReport Kind = "progress_report"
	KindUser           Kind = "user"
	KindAssignment     Kind = "assignment"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type grant struct {
	kind    Kind
	actions []Action
}

var crud = []Action{ActionCreate, ActionUpdate, ActionDelete}

type rule struct {
	views   []View
	landing View
	grants  []grant
}

var table = map[domain.Role]rule{
	domain.RoleAdmin: {
		views:   []View{ViewDashboard, ViewEvents, ViewEventDetail, ViewMilestoneDetail, ViewUsers, ViewReports},
		landing: ViewDashboard,
		grants: []grant{
			{kind: KindEvent, actions: crud},
			{kind: KindMilestone, actions: crud},
			{kind: KindUser, actions: crud},
			{kind: KindAssignment, actions: []Action{ActionCreate, ActionDelete}},
		},
	},
	domain.RoleSupervisor: {
		views:   []View{ViewMonitoring, ViewEventDetail, ViewMilestoneDetail, ViewReports},
		landing: ViewMonitoring,
	},
	domain.RolePetugas: {
		views:   []View{ViewMyEvents, ViewMilestoneDetail},
		landing: ViewMyEvents,
		grants: []grant{
			{kind: KindProgressReport, actions: crud},
		},
	},
}

// NavItem is one sidebar entry.
type NavItem struct {
	View  View   `json:"view"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// navigation is ordered as the sidebar renders it. Detail views are reached
// from their parent pages and have no entry.
var navigation = []NavItem{
	{View: ViewDashboard, Title: "Dashboard", Path: "/dashboard"},
	{View: ViewEvents, Title: "Events", Path: "/dashboard/events"},
	{View: ViewMonitoring, Title: "Event Monitoring", Path: "/dashboard/supervisor"},
	{View: ViewMyEvents, Title: "My Events", Path: "/dashboard/petugas"},
	{View: ViewUsers, Title: "Users", Path: "/dashboard/users"},
	{View: ViewReports, Title: "Reports", Path: "/dashboard/reports"},
}

// AllowedViews returns the views the role may open. Unknown roles get none.
func AllowedViews(role domain.Role) []View {
	r, ok := table[role]
	if !ok {
		return nil
	}

	views := make([]View, len(r.views))
	copy(views, r.views)

	return views
}

func CanView(role domain.Role, view View) bool {
	for _, v := range table[role].views {
		if v == view {
			return true
		}
	}

	return false
}

func CanMutate(role domain.Role, kind Kind, action Action) bool {
	for _, g := range table[role].grants {
		if g.kind != kind {
			continue
		}
		for _, a := range g.actions {
			if a == action {
				return true
			}
		}
	}

	return false
}

// LandingView is where a role is routed right after login.
func LandingView(role domain.Role) (View, bool) {
	r, ok := table[role]
	if !ok {
		return "", false
	}

	return r.landing, true
}

func Navigation(role domain.Role) []NavItem {
	var items []NavItem
	for _, item := range navigation {
		if CanView(role, item.View) {
			items = append(items, item)
		}
	}

	return items
}

// CanEditReport reports whether the session may change the progress report.
// Only the author may. This only decides what the dashboard offers; the
// tender backend must enforce authorship on its own.
func CanEditReport(s domain.Session, report domain.ProgressReport) bool {
	if !CanMutate(s.Role(), KindProgressReport, ActionUpdate) {
		return false
	}

	return report.AuthorID != "" && report.AuthorID == s.UserID()
}

// Actions lists what the role may do on a resource kind, for rendering page buttons.
func Actions(role domain.Role, kind Kind) map[Action]bool {
	out := make(map[Action]bool, len(crud))
	for _, a := range crud {
		out[a] = CanMutate(role, kind, a)
	}

	return out
}
