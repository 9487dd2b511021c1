package module

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/subject"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidID       = errors.New("invalid id format")
	ErrSubjectNotFound = subject.ErrSubjectNotFound
)

type ModuleService interface {
	ListBySubject(ctx context.Context, subjectID string) ([]*Module, error)
	GetByID(ctx context.Context, id string) (*Module, error)
	Create(ctx context.Context, dto CreateModuleDTO) (*Module, error)
	Update(ctx context.Context, id string, dto UpdateModuleDTO) (*Module, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, dto ReorderDTO) error
}

type moduleService struct {
	repo        ModuleRepository
	subjectRepo subject.SubjectRepository
	authz       *policy.Authorizer
}

func NewService(repo ModuleRepository, subjectRepo subject.SubjectRepository, authz *policy.Authorizer) ModuleService {
	return &moduleService{
		repo:        repo,
		subjectRepo: subjectRepo,
		authz:       authz,
	}
}

func (s *moduleService) ListBySubject(ctx context.Context, subjectID string) ([]*Module, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.subjectRepo.FindByID(sid); err != nil {
		return nil, err
	}

	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		log.WithError(err).Error("Failed to resolve caller role")
		return nil, err
	}

	return s.repo.ListBySubject(sid, !admin)
}

func (s *moduleService) GetByID(ctx context.Context, id string) (*Module, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	moduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	m, err := s.repo.FindByID(moduleID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:  policy.TableModules,
		Active: m.IsActive,
	}); err != nil {
		log.WithFields(map[string]interface{}{
			"module_id": id,
			"user_id":   callerID,
		}).Warn("Module hidden from caller")
		return nil, ErrModuleNotFound
	}

	return m, nil
}

func (s *moduleService) Create(ctx context.Context, dto CreateModuleDTO) (*Module, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table: policy.TableModules,
	}); err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(dto.SubjectID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.subjectRepo.FindByID(sid); err != nil {
		return nil, err
	}

	m := Module{
		ID:          uuid.New(),
		SubjectID:   sid,
		Name:        dto.Name,
		Description: dto.Description,
		OrderIndex:  dto.OrderIndex,
		IsActive:    true,
	}

	if err := s.repo.Create(&m); err != nil {
		log.WithError(err).Error("Failed to create module")
		return nil, err
	}

	log.WithField("module_id", m.ID).Info("Module created successfully")
	return &m, nil
}

func (s *moduleService) Update(ctx context.Context, id string, dto UpdateModuleDTO) (*Module, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	moduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableModules,
	}); err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(moduleID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		m.Name = *dto.Name
	}
	if dto.Description != nil {
		m.Description = *dto.Description
	}
	if dto.OrderIndex != nil {
		m.OrderIndex = *dto.OrderIndex
	}
	if dto.IsActive != nil {
		m.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(m); err != nil {
		log.WithError(err).Error("Failed to update module")
		return nil, err
	}

	log.WithField("module_id", m.ID).Info("Module updated successfully")
	return m, nil
}

func (s *moduleService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	moduleID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionDelete, policy.Resource{
		Table: policy.TableModules,
	}); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(moduleID); err != nil {
		return err
	}

	if err := s.repo.Delete(moduleID); err != nil {
		log.WithError(err).Error("Failed to delete module")
		return err
	}

	log.WithField("module_id", id).Info("Module deleted successfully")
	return nil
}

func (s *moduleService) Reorder(ctx context.Context, dto ReorderDTO) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableModules,
	}); err != nil {
		return err
	}

	if err := s.repo.UpdateOrder(dto.Items); err != nil {
		log.WithError(err).Error("Failed to reorder modules")
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
