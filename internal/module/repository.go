package module

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrModuleNotFound = errors.New("module not found")

type ModuleRepository interface {
	Create(m *Module) error
	FindByID(id uuid.UUID) (*Module, error)
	ListBySubject(subjectID uuid.UUID, onlyActive bool) ([]*Module, error)
	Update(m *Module) error
	Delete(id uuid.UUID) error
	UpdateOrder(items []ReorderItem) error
}

type moduleRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(m *Module) error {
	return r.db.Create(m).Error
}

func (r *moduleRepository) FindByID(id uuid.UUID) (*Module, error) {
	var m Module
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepository) ListBySubject(subjectID uuid.UUID, onlyActive bool) ([]*Module, error) {
	q := r.db.Where("subject_id = ?", subjectID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var modules []*Module
	if err := q.Order("order_index ASC, created_at ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) Update(m *Module) error {
	return r.db.Save(m).Error
}

func (r *moduleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Module{}, "id = ?", id).Error
}

func (r *moduleRepository) UpdateOrder(items []ReorderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&Module{}).
				Where("id = ?", item.ID).
				Update("order_index", item.OrderIndex).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
