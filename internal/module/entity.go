package module

import (
	"time"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/subject"
)

type Module struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject     subject.Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	OrderIndex  int             `gorm:"not null;default:0" json:"order_index"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
