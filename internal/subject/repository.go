package subject

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSubjectNotFound = errors.New("subject not found")

type SubjectRepository interface {
	Create(s *Subject) error
	FindByID(id uuid.UUID) (*Subject, error)
	ListAll() ([]*Subject, error)
	ListActive() ([]*Subject, error)
	Update(s *Subject) error
	Delete(id uuid.UUID) error
	UpdateOrder(items []ReorderItem) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(s *Subject) error {
	return r.db.Create(s).Error
}

func (r *subjectRepository) FindByID(id uuid.UUID) (*Subject, error) {
	var s Subject
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepository) ListAll() ([]*Subject, error) {
	var subjects []*Subject
	if err := r.db.Order("order_index ASC, created_at ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListActive() ([]*Subject, error) {
	var subjects []*Subject
	if err := r.db.
		Where("is_active = ?", true).
		Order("order_index ASC, created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Update(s *Subject) error {
	return r.db.Save(s).Error
}

func (r *subjectRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Subject{}, "id = ?", id).Error
}

func (r *subjectRepository) UpdateOrder(items []ReorderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&Subject{}).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
