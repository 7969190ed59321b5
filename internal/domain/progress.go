package domain

import (
	"encoding/json"
	"time"
)

type ProgressReport struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id,omitempty"`
	MilestoneID string     `json:"milestone_id,omitempty"`
	AuthorID    string     `json:"petugas_id,omitempty"`
	Description string     `json:"deskripsi"`
	ReportDate  Date       `json:"tanggal_laporan"`
	Percent     int        `json:"persentase_progress"`
	PhotoURLs   []string   `json:"foto_progress"`
	Author      *User      `json:"petugas,omitempty"`
	Milestone   *Milestone `json:"milestone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UnmarshalJSON accepts the alternate field names the backend uses on
// activity feeds and milestone details.
func (r *ProgressReport) UnmarshalJSON(b []byte) error {
	type plain ProgressReport
	var aux struct {
		plain
		AltDescription string   `json:"description"`
		AltPhotoURLs   []string `json:"foto_urls"`
		AltAuthor      *User    `json:"user"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*r = ProgressReport(aux.plain)
	if r.Description == "" {
		r.Description = aux.AltDescription
	}
	if len(r.PhotoURLs) == 0 {
		r.PhotoURLs = aux.AltPhotoURLs
	}
	if r.Author == nil {
		r.Author = aux.AltAuthor
	}
	if r.AuthorID == "" && r.Author != nil {
		r.AuthorID = r.Author.ID
	}

	return nil
}

// ProgressDraft carries a progress report submission. RetainedPhotos only
// applies to updates and lists the existing photo URLs to keep.
type ProgressDraft struct {
	MilestoneID    string       `json:"milestone_id"`
	Description    string       `json:"deskripsi"`
	ReportDate     Date         `json:"tanggal_laporan"`
	Percent        int          `json:"persentase_progress"`
	RetainedPhotos []string     `json:"existing_photos"`
	Photos         []Attachment `json:"photos"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
