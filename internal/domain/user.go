package domain

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RolePetugas    Role = "petugas"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RolePetugas:
		return true
	}

	return false
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FullName  string    `json:"nama_lengkap"`
	PhotoURL  *string   `json:"foto_profil,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// UserDraft is the payload for creating or updating a user. An empty
// Password on update keeps the current one.
type UserDraft struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	FullName string `json:"nama_lengkap"`
	Role     Role   `json:"role"`
	Active   *bool  `json:"is_active,omitempty"`
}
