package aggregate

import (
	"time"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// NearDeadlineWindow is how close an open event's end date must be to count
// as near its deadline.
const NearDeadlineWindow = 7 * 24 * time.Hour

// CountByStatus reduces events to per-status counts. All known statuses are
// present even when zero.
func CountByStatus(events []domain.Event) domain.StatusCounts {
	counts := domain.StatusCounts{
		ByStatus: make(map[domain.EventStatus]int, len(domain.EventStatuses)),
		Total:    len(events),
	}
	for _, status := range domain.EventStatuses {
		counts.ByStatus[status] = 0
	}
	for _, e := range events {
		if e.Status.Valid() {
			counts.ByStatus[e.Status]++
		}
	}

	return counts
}

// DashboardStats summarises events as of now. Completed and cancelled
// events are never near a deadline nor overdue.
func DashboardStats(events []domain.Event, now time.Time) domain.DashboardStats {
	stats := domain.DashboardStats{Events: CountByStatus(events)}

	today := domain.NewDate(now.Year(), now.Month(), now.Day())
	activePetugas := make(map[string]struct{})
	for _, e := range events {
		stats.TotalProgressReports += reportCount(e)

		if e.Status.Closed() {
			continue
		}
		for _, a := range e.AssignedPetugas {
			activePetugas[a.UserID()] = struct{}{}
		}
		if e.EndDate.IsZero() {
			continue
		}

		switch {
		case e.EndDate.Before(today):
			stats.OverdueEvents++
		case e.EndDate.Sub(today.Time) <= NearDeadlineWindow:
			stats.EventsNearDeadline++
		}
	}
	stats.ActivePetugas = len(activePetugas)

	return stats
}

func reportCount(e domain.Event) int {
	if e.Counts != nil {
		return e.Counts.ProgressReports
	}

	return len(e.ProgressReports)
}
