package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type ListQuery struct {
	Page   int    `form:"page" json:"page"`
	Limit  int    `form:"limit" json:"limit"`
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
	Role   string `form:"role" json:"role"`
}

func (req *ListQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Page, validation.Min(1)),
		validation.Field(&req.Limit, validation.Min(1), validation.Max(100)),
		validation.Field(&req.Search, validation.Length(0, 100)),
		validation.Field(&req.Status, validation.In(
			string(domain.EventPlanning), string(domain.EventOnProgress),
			string(domain.EventCompleted), string(domain.EventCancelled),
		)),
		validation.Field(&req.Role, validation.In(
			string(domain.RoleAdmin), string(domain.RoleSupervisor), string(domain.RolePetugas),
		)),
	)
}

func (req *ListQuery) Filter() domain.ListFilter {
	f := domain.ListFilter{
		Page:   req.Page,
		Limit:  req.Limit,
		Search: req.Search,
		Status: req.Status,
		Role:   req.Role,
	}
	if f.Page == 0 {
		f.Page = defaultPage
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}

	return f
}
