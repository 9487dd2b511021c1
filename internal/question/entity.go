package question

import (
	"time"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/section"
)

type Question struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"section_id"`
	Section       section.Section `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	OptionA       string          `gorm:"type:text;not null" json:"option_a"`
	OptionB       string          `gorm:"type:text;not null" json:"option_b"`
	OptionC       string          `gorm:"type:text;not null" json:"option_c"`
	OptionD       string          `gorm:"type:text;not null" json:"option_d"`
	CorrectAnswer AnswerOption    `gorm:"type:text;not null" json:"correct_answer"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	OrderIndex    int             `gorm:"not null;default:0" json:"order_index"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
