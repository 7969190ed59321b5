package request

import (
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type MilestoneRequest struct {
	Name        string                 `json:"nama_milestone"`
	Description string                 `json:"deskripsi"`
	Deadline    domain.Date            `json:"deadline" swaggertype:"string" example:"2024-06-15"`
	Order       int                    `json:"urutan"`
	Status      domain.MilestoneStatus `json:"status" enums:"pending,on_progress,completed"`
}

func (req *MilestoneRequest) ToDraft() domain.MilestoneDraft {
	return domain.MilestoneDraft{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Order:       req.Order,
		Status:      req.Status,
	}
}
