package section

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/module"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidID      = errors.New("invalid id format")
	ErrInvalidType    = errors.New("invalid section type")
	ErrModuleNotFound = module.ErrModuleNotFound
)

type SectionService interface {
	ListByModule(ctx context.Context, moduleID string) ([]*Section, error)
	GetByID(ctx context.Context, id string) (*Section, error)
	Create(ctx context.Context, dto CreateSectionDTO) (*Section, error)
	Update(ctx context.Context, id string, dto UpdateSectionDTO) (*Section, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, dto ReorderDTO) error
}

type sectionService struct {
	repo       SectionRepository
	moduleRepo module.ModuleRepository
	authz      *policy.Authorizer
}

func NewService(repo SectionRepository, moduleRepo module.ModuleRepository, authz *policy.Authorizer) SectionService {
	return &sectionService{
		repo:       repo,
		moduleRepo: moduleRepo,
		authz:      authz,
	}
}

// Sections have no active-flag gate of their own: any authenticated
// account may read any section row. Mutations stay admin-only.
func (s *sectionService) ListByModule(ctx context.Context, moduleID string) ([]*Section, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	mid, err := uuid.Parse(moduleID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.moduleRepo.FindByID(mid); err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return nil, err
	}

	return s.repo.ListByModule(mid)
}

func (s *sectionService) GetByID(ctx context.Context, id string) (*Section, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sectionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return nil, err
	}

	return s.repo.FindByID(sectionID)
}

func (s *sectionService) Create(ctx context.Context, dto CreateSectionDTO) (*Section, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return nil, err
	}

	if !dto.Type.IsValid() {
		return nil, ErrInvalidType
	}

	mid, err := uuid.Parse(dto.ModuleID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.moduleRepo.FindByID(mid); err != nil {
		return nil, err
	}

	sec := Section{
		ID:         uuid.New(),
		ModuleID:   mid,
		Name:       dto.Name,
		Type:       dto.Type,
		Content:    dto.Content,
		Link:       dto.Link,
		OrderIndex: dto.OrderIndex,
		IsRequired: true,
	}
	if dto.IsRequired != nil {
		sec.IsRequired = *dto.IsRequired
	}

	if err := s.repo.Create(&sec); err != nil {
		log.WithError(err).Error("Failed to create section")
		return nil, err
	}

	log.WithField("section_id", sec.ID).Info("Section created successfully")
	return &sec, nil
}

func (s *sectionService) Update(ctx context.Context, id string, dto UpdateSectionDTO) (*Section, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sectionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return nil, err
	}

	sec, err := s.repo.FindByID(sectionID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		sec.Name = *dto.Name
	}
	if dto.Type != nil {
		if !dto.Type.IsValid() {
			return nil, ErrInvalidType
		}
		sec.Type = *dto.Type
	}
	if dto.Content != nil {
		sec.Content = *dto.Content
	}
	if dto.Link != nil {
		sec.Link = *dto.Link
	}
	if dto.OrderIndex != nil {
		sec.OrderIndex = *dto.OrderIndex
	}
	if dto.IsRequired != nil {
		sec.IsRequired = *dto.IsRequired
	}

	if err := s.repo.Update(sec); err != nil {
		log.WithError(err).Error("Failed to update section")
		return nil, err
	}

	log.WithField("section_id", sec.ID).Info("Section updated successfully")
	return sec, nil
}

func (s *sectionService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	sectionID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionDelete, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(sectionID); err != nil {
		return err
	}

	if err := s.repo.Delete(sectionID); err != nil {
		log.WithError(err).Error("Failed to delete section")
		return err
	}

	log.WithField("section_id", id).Info("Section deleted successfully")
	return nil
}

func (s *sectionService) Reorder(ctx context.Context, dto ReorderDTO) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableSections,
	}); err != nil {
		return err
	}

	if err := s.repo.UpdateOrder(dto.Items); err != nil {
		log.WithError(err).Error("Failed to reorder sections")
		return err
	}
	return nil
}

func callerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}
