// Package aggregate derives dashboard numbers from already fetched events,
// milestones and progress reports. Nothing here talks to the network, and
// every percentage it returns lies in [0, 100].
package aggregate

import (
	"sort"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// Clamp bounds p to [0, 100].
func Clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}

	return p
}

// roundDiv divides rounding half up. d must be positive.
func roundDiv(n, d int) int {
	return (2*n + d) / (2 * d)
}

// MilestoneProgress returns how many milestones are completed, how many there
// are, and the completed ratio as a percentage. No milestones yields 0%.
func MilestoneProgress(milestones []domain.Milestone) (completed, total, percent int) {
	total = len(milestones)
	for _, m := range milestones {
		if m.Status == domain.MilestoneCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}

	return completed, total, Clamp(roundDiv(completed*100, total))
}

// LatestReportPercent returns the clamped percentage of the most recent
// report, or nil when there are none. Recency is the report date, then the
// creation time, then the id so equal timestamps still pick the same report.
func LatestReportPercent(reports []domain.ProgressReport) *int {
	if len(reports) == 0 {
		return nil
	}

	sorted := make([]domain.ProgressReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.ReportDate.Equal(b.ReportDate.Time) {
			return a.ReportDate.After(b.ReportDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	p := Clamp(sorted[0].Percent)

	return &p
}

// EventOverallProgress blends the milestone completion ratio with the latest
// report percentage. The result is the mean of the components that exist:
// both when the event has milestones and at least one report, only one of
// them otherwise, and 0 when it has neither. The mean rounds half up.
func EventOverallProgress(milestones []domain.Milestone, latestReportPercent *int) int {
	sum, parts := 0, 0

	if _, total, percent := MilestoneProgress(milestones); total > 0 {
		sum += percent
		parts++
	}
	if latestReportPercent != nil {
		sum += Clamp(*latestReportPercent)
		parts++
	}
	if parts == 0 {
		return 0
	}

	return Clamp(roundDiv(sum, parts))
}

// Progress computes the full progress breakdown for one event.
func Progress(milestones []domain.Milestone, reports []domain.ProgressReport) domain.EventProgress {
	completed, total, percent := MilestoneProgress(milestones)
	latest := LatestReportPercent(reports)

	return domain.EventProgress{
		MilestoneProgress:        percent,
		LatestProgressPercentage: latest,
		OverallProgress:          EventOverallProgress(milestones, latest),
		CompletedMilestones:      completed,
		TotalMilestones:          total,
	}
}

// Summaries attaches a recomputed progress breakdown to each event using the
// milestones and reports embedded in it.
func Summaries(events []domain.Event) []domain.EventSummary {
	out := make([]domain.EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, domain.EventSummary{
			Event:    e,
			Progress: Progress(e.Milestones, e.ProgressReports),
		})
	}

	return out
}
