package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

var AllRoles = []Role{
	RoleAdmin,
	RoleStudent,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email              string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name               string    `gorm:"type:text;not null" json:"name"`
	Role               Role      `gorm:"type:text;not null;default:'student'" json:"role"`
	PasswordHash       string    `gorm:"type:text" json:"-"`
	GoogleRefreshToken string    `gorm:"type:text" json:"-"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
