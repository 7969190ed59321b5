package domain

import "time"

// Assignment links a petugas to an event.
type Assignment struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	PetugasID  string    `json:"petugas_id"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
	Petugas    *User     `json:"petugas,omitempty"`
}

// UserID is the assigned petugas id, falling back to the embedded user.
func (a Assignment) UserID() string {
	if a.PetugasID == "" && a.Petugas != nil {
		return a.Petugas.ID
	}

	return a.PetugasID
}
