package domain

import "encoding/json"

// StatusCounts holds the number of events per status. Every known status is
// always present. Total also counts events with an unrecognised status.
type StatusCounts struct {
	ByStatus map[EventStatus]int
	Total    int
}

func (c StatusCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(EventStatuses)+1)
	for _, status := range EventStatuses {
		out[string(status)] = c.ByStatus[status]
	}
	out["total"] = c.Total

	return json.Marshal(out)
}

type DashboardStats struct {
	Events               StatusCounts `json:"events"`
	TotalUsers           int          `json:"total_users"`
	ActivePetugas        int          `json:"active_petugas"`
	TotalProgressReports int          `json:"total_progress_reports"`
	EventsNearDeadline   int          `json:"events_near_deadline"`
	OverdueEvents        int          `json:"overdue_events"`
}

type EventProgress struct {
	MilestoneProgress        int  `json:"milestone_progress"`
	LatestProgressPercentage *int `json:"latest_progress_percentage"`
	OverallProgress          int  `json:"overall_progress"`
	CompletedMilestones      int  `json:"completed_milestones"`
	TotalMilestones          int  `json:"total_milestones"`
}

type EventSummary struct {
	Event
	Progress EventProgress `json:"progress"`
}
