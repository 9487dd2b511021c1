package section

import (
	"time"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/module"
)

type Section struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module     module.Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
	Name       string        `gorm:"type:text;not null" json:"name"`
	Type       SectionType   `gorm:"type:text;not null;default:'source'" json:"type"`
	Content    string        `gorm:"type:text" json:"content,omitempty"`
	Link       string        `gorm:"type:text" json:"link,omitempty"`
	OrderIndex int           `gorm:"not null;default:0" json:"order_index"`
	IsRequired bool          `gorm:"not null;default:true" json:"is_required"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}
