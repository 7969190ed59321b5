package request

import (
	"strings"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type UserRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"nama_lengkap"`
	Role     domain.Role `json:"role" enums:"admin,supervisor,petugas"`
	Active   *bool       `json:"is_active"`
}

func (req *UserRequest) ToDraft() domain.UserDraft {
	return domain.UserDraft{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
		Active:   req.Active,
	}
}

// Redacted is the request as echoed back in error responses.
func (req UserRequest) Redacted() UserRequest {
	req.Password = ""
	return req
}
