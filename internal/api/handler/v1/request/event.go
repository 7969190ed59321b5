package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type EventRequest struct {
	Title       string             `json:"nama_tender"`
	Location    string             `json:"lokasi"`
	Description string             `json:"deskripsi"`
	Budget      int64              `json:"budget"`
	StartDate   domain.Date        `json:"tanggal_mulai" swaggertype:"string" example:"2024-06-01"`
	EndDate     domain.Date        `json:"tanggal_selesai" swaggertype:"string" example:"2024-06-30"`
	Status      domain.EventStatus `json:"status" enums:"planning,on_progress,completed,cancelled"`
}

func (req *EventRequest) ToDraft() domain.EventDraft {
	return domain.EventDraft{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	}
}

type EventStatusRequest struct {
	Status domain.EventStatus `json:"status" enums:"planning,on_progress,completed,cancelled"`
}

func (req *EventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(
			domain.EventPlanning, domain.EventOnProgress, domain.EventCompleted, domain.EventCancelled,
		)),
	)
}

type AssignRequest struct {
	PetugasIDs []string `json:"petugas_ids"`
}

func (req *AssignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PetugasIDs, validation.Required, validation.By(func(value interface{}) error {
			ids, _ := value.([]string)
			for _, id := range ids {
				if id == "" {
					return errors.New("must not contain blank ids")
				}
			}
			return nil
		})),
	)
}
