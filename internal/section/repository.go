package section

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSectionNotFound = errors.New("section not found")

type SectionRepository interface {
	Create(s *Section) error
	FindByID(id uuid.UUID) (*Section, error)
	ListByModule(moduleID uuid.UUID) ([]*Section, error)
	Update(s *Section) error
	Delete(id uuid.UUID) error
	UpdateOrder(items []ReorderItem) error
}

type sectionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(s *Section) error {
	return r.db.Create(s).Error
}

func (r *sectionRepository) FindByID(id uuid.UUID) (*Section, error) {
	var s Section
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *sectionRepository) ListByModule(moduleID uuid.UUID) ([]*Section, error) {
	var sections []*Section
	if err := r.db.
		Where("module_id = ?", moduleID).
		Order("order_index ASC, created_at ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepository) Update(s *Section) error {
	return r.db.Save(s).Error
}

func (r *sectionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Section{}, "id = ?", id).Error
}

func (r *sectionRepository) UpdateOrder(items []ReorderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&Section{}).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
