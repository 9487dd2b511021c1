package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProgressNotFound = errors.New("progress not found")

type ProgressRepository interface {
	FindSectionProgress(userID, sectionID uuid.UUID) (*SectionProgress, error)
	ListSectionProgressByUser(userID uuid.UUID, subjectID *uuid.UUID) ([]*SectionProgress, error)
	ListSubjectProgressByUser(userID uuid.UUID) ([]*SubjectProgress, error)
	ListSubjectProgressForSubject(subjectID uuid.UUID) ([]*SubjectProgress, error)

	// SaveSectionProgress upserts the row and recomputes the subject
	// rollup inside the same transaction. Either both land or neither
	// does; a caller observing success knows the aggregate is already
	// consistent.
	SaveSectionProgress(sp *SectionProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) FindSectionProgress(userID, sectionID uuid.UUID) (*SectionProgress, error) {
	var sp SectionProgress
	err := r.db.First(&sp, "user_id = ? AND section_id = ?", userID, sectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (r *progressRepository) ListSectionProgressByUser(userID uuid.UUID, subjectID *uuid.UUID) ([]*SectionProgress, error) {
	q := r.db.Where("section_progress.user_id = ?", userID)
	if subjectID != nil {
		q = q.
			Joins("JOIN sections ON sections.id = section_progress.section_id").
			Joins("JOIN modules ON modules.id = sections.module_id").
			Where("modules.subject_id = ?", *subjectID)
	}

	var rows []*SectionProgress
	if err := q.Order("section_progress.created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepository) ListSubjectProgressByUser(userID uuid.UUID) ([]*SubjectProgress, error) {
	var rows []*SubjectProgress
	if err := r.db.
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepository) ListSubjectProgressForSubject(subjectID uuid.UUID) ([]*SubjectProgress, error) {
	var rows []*SubjectProgress
	if err := r.db.
		Where("subject_id = ?", subjectID).
		Order("completed_sections DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepository) SaveSectionProgress(sp *SectionProgress) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed", "score", "attempts", "last_answers", "completed_at",
			}),
		}).Create(sp).Error; err != nil {
			return err
		}

		return onSectionProgressChanged(tx, sp.UserID, sp.SectionID)
	})
}

// onSectionProgressChanged is the synchronous reaction to every section
// progress write. It runs with the transaction's own privileges, not
// the caller's policy scope: the rollup row is engine-owned and the
// escalation is limited to exactly this recomputation.
func onSectionProgressChanged(tx *gorm.DB, userID, sectionID uuid.UUID) error {
	var subjectID uuid.UUID
	err := tx.
		Table("sections").
		Select("modules.subject_id").
		Joins("JOIN modules ON modules.id = sections.module_id").
		Where("sections.id = ?", sectionID).
		Scan(&subjectID).Error
	if err != nil {
		return fmt.Errorf("resolve subject for section %s: %w", sectionID, err)
	}
	if subjectID == uuid.Nil {
		return fmt.Errorf("section %s has no owning subject", sectionID)
	}

	totals, err := computeSubjectTotals(txSubjectCounter{tx: tx}, userID, subjectID)
	if err != nil {
		return err
	}

	return upsertSubjectProgress(tx, userID, subjectID, totals, time.Now())
}

// txSubjectCounter recounts from scratch against the live tables: every
// section under the subject, and every one of them the user has
// completed.
type txSubjectCounter struct {
	tx *gorm.DB
}

func (c txSubjectCounter) CountSections(subjectID uuid.UUID) (int, error) {
	var total int64
	err := c.tx.
		Table("sections").
		Joins("JOIN modules ON modules.id = sections.module_id").
		Where("modules.subject_id = ?", subjectID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (c txSubjectCounter) CountCompletedSections(userID, subjectID uuid.UUID) (int, error) {
	var completed int64
	err := c.tx.
		Table("section_progress").
		Joins("JOIN sections ON sections.id = section_progress.section_id").
		Joins("JOIN modules ON modules.id = sections.module_id").
		Where("modules.subject_id = ? AND section_progress.user_id = ? AND section_progress.completed = ?",
			subjectID, userID, true).
		Count(&completed).Error
	if err != nil {
		return 0, err
	}
	return int(completed), nil
}

func upsertSubjectProgress(tx *gorm.DB, userID, subjectID uuid.UUID, totals SubjectTotals, now time.Time) error {
	row := SubjectProgress{
		ID:                uuid.New(),
		UserID:            userID,
		SubjectID:         subjectID,
		TotalSections:     totals.TotalSections,
		CompletedSections: totals.CompletedSections,
		LastAccessedAt:    now,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "subject_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_sections":     totals.TotalSections,
			"completed_sections": totals.CompletedSections,
			"last_accessed_at":   now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert subject progress for user %s subject %s: %w", userID, subjectID, err)
	}
	return nil
}
