package domain

import "time"

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneOnProgress MilestoneStatus = "on_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneOnProgress, MilestoneCompleted:
		return true
	}

	return false
}

type Milestone struct {
	ID              string           `json:"id"`
	EventID         string           `json:"event_id"`
	Name            string           `json:"nama_milestone"`
	Description     string           `json:"deskripsi"`
	Deadline        Date             `json:"deadline"`
	Order           int              `json:"urutan"`
	Status          MilestoneStatus  `json:"status"`
	Event           *Event           `json:"event,omitempty"`
	ProgressReports []ProgressReport `json:"progress_reports,omitempty"`
	Counts          *Counts          `json:"_count,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type MilestoneDraft struct {
	Name        string          `json:"nama_milestone"`
	Description string          `json:"deskripsi"`
	Deadline    Date            `json:"deadline"`
	Order       int             `json:"urutan"`
	Status      MilestoneStatus `json:"status"`
}
