package question

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository interface {
	Create(q *Question) error
	FindByID(id uuid.UUID) (*Question, error)
	ListBySection(sectionID uuid.UUID) ([]*Question, error)
	Update(q *Question) error
	Delete(id uuid.UUID) error
	UpdateOrder(items []ReorderItem) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(q *Question) error {
	return r.db.Create(q).Error
}

func (r *questionRepository) FindByID(id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) ListBySection(sectionID uuid.UUID) ([]*Question, error) {
	var questions []*Question
	if err := r.db.
		Where("section_id = ?", sectionID).
		Order("order_index ASC, created_at ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(q *Question) error {
	return r.db.Save(q).Error
}

func (r *questionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Question{}, "id = ?", id).Error
}

func (r *questionRepository) UpdateOrder(items []ReorderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&Question{}).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
