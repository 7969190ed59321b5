package domain

import "time"

type EventStatus string

const (
	EventPlanning   EventStatus = "planning"
	EventOnProgress EventStatus = "on_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

// EventStatuses lists every status in display order.
var EventStatuses = []EventStatus{EventPlanning, EventOnProgress, EventCompleted, EventCancelled}

func (s EventStatus) Valid() bool {
	for _, status := range EventStatuses {
		if s == status {
			return true
		}
	}

	return false
}

// Closed reports whether no further work is expected on the event.
func (s EventStatus) Closed() bool {
	return s == EventCompleted || s == EventCancelled
}

type Event struct {
	ID              string           `json:"id"`
	Title           string           `json:"nama_tender"`
	Location        string           `json:"lokasi"`
	Description     string           `json:"deskripsi"`
	Budget          int64            `json:"budget"`
	StartDate       Date             `json:"tanggal_mulai"`
	EndDate         Date             `json:"tanggal_selesai"`
	Status          EventStatus      `json:"status"`
	Milestones      []Milestone      `json:"milestones,omitempty"`
	AssignedPetugas []Assignment     `json:"assigned_petugas,omitempty"`
	ProgressReports []ProgressReport `json:"progress_reports,omitempty"`
	Counts          *Counts          `json:"_count,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// AssignedTo reports whether the petugas is listed among the event's assignments.
func (e Event) AssignedTo(petugasID string) bool {
	for _, a := range e.AssignedPetugas {
		if a.UserID() == petugasID {
			return true
		}
	}

	return false
}

type EventDraft struct {
	Title       string      `json:"nama_tender"`
	Location    string      `json:"lokasi"`
	Description string      `json:"deskripsi"`
	Budget      int64       `json:"budget"`
	StartDate   Date        `json:"tanggal_mulai"`
	EndDate     Date        `json:"tanggal_selesai"`
	Status      EventStatus `json:"status"`
}

// Counts mirrors the backend's relation counters.
type Counts struct {
	Milestones      int `json:"milestones"`
	ProgressReports int `json:"progress_reports"`
}
