package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/upscpath/tracker-lambda/internal/section"
	"github.com/upscpath/tracker-lambda/internal/subject"
	"github.com/upscpath/tracker-lambda/internal/user"
	util "github.com/upscpath/tracker-lambda/internal/utils"
)

// SectionProgress is the only row a student writes: one per
// (user, section), tracking completion and the latest test outcome.
type SectionProgress struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_user_section" json:"user_id"`
	User        user.User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SectionID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_user_section" json:"section_id"`
	Section     section.Section     `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
	Completed   bool                `gorm:"not null;default:false" json:"completed"`
	Score       int                 `gorm:"not null;default:0" json:"score"`
	Attempts    int                 `gorm:"not null;default:0" json:"attempts"`
	LastAnswers datatypes.JSON      `gorm:"type:jsonb" json:"last_answers,omitempty"`
	CompletedAt *util.LocalDateTime `gorm:"type:timestamptz" json:"completed_at,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (SectionProgress) TableName() string {
	return "section_progress"
}

// SubjectProgress is the derived rollup per (user, subject). It is
// written exclusively by the aggregation engine; no caller path mutates
// it directly.
type SubjectProgress struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_subject_progress_user_subject" json:"user_id"`
	User              user.User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_subject_progress_user_subject" json:"subject_id"`
	Subject           subject.Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	TotalSections     int             `gorm:"not null;default:0" json:"total_sections"`
	CompletedSections int             `gorm:"not null;default:0" json:"completed_sections"`
	LastAccessedAt    time.Time       `gorm:"not null" json:"last_accessed_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (SubjectProgress) TableName() string {
	return "subject_progress"
}
