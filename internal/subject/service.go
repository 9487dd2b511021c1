package subject

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidID    = errors.New("invalid id format")
)

type SubjectService interface {
	List(ctx context.Context) ([]*Subject, error)
	GetByID(ctx context.Context, id string) (*Subject, error)
	Create(ctx context.Context, dto CreateSubjectDTO) (*Subject, error)
	Update(ctx context.Context, id string, dto UpdateSubjectDTO) (*Subject, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, dto ReorderDTO) error
}

type subjectService struct {
	repo  SubjectRepository
	authz *policy.Authorizer
}

func NewService(repo SubjectRepository, authz *policy.Authorizer) SubjectService {
	return &subjectService{repo: repo, authz: authz}
}

// List returns every subject for admins and only active ones for
// everybody else, mirroring the row-level select rule.
func (s *subjectService) List(ctx context.Context) ([]*Subject, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		log.WithError(err).Error("Failed to resolve caller role")
		return nil, err
	}

	if admin {
		return s.repo.ListAll()
	}
	return s.repo.ListActive()
}

func (s *subjectService) GetByID(ctx context.Context, id string) (*Subject, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	subjectID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	subj, err := s.repo.FindByID(subjectID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:  policy.TableSubjects,
		Active: subj.IsActive,
	}); err != nil {
		// A hidden row is indistinguishable from a missing one.
		log.WithFields(map[string]interface{}{
			"subject_id": id,
			"user_id":    callerID,
		}).Warn("Subject hidden from caller")
		return nil, ErrSubjectNotFound
	}

	return subj, nil
}

func (s *subjectService) Create(ctx context.Context, dto CreateSubjectDTO) (*Subject, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table: policy.TableSubjects,
	}); err != nil {
		return nil, err
	}

	subj := Subject{
		ID:          uuid.New(),
		Name:        dto.Name,
		Description: dto.Description,
		OrderIndex:  dto.OrderIndex,
		IsActive:    true,
		CreatedBy:   callerID,
	}

	if err := s.repo.Create(&subj); err != nil {
		log.WithError(err).Error("Failed to create subject")
		return nil, err
	}

	log.WithField("subject_id", subj.ID).Info("Subject created successfully")
	return &subj, nil
}

func (s *subjectService) Update(ctx context.Context, id string, dto UpdateSubjectDTO) (*Subject, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	subjectID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableSubjects,
	}); err != nil {
		return nil, err
	}

	subj, err := s.repo.FindByID(subjectID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		subj.Name = *dto.Name
	}
	if dto.Description != nil {
		subj.Description = *dto.Description
	}
	if dto.OrderIndex != nil {
		subj.OrderIndex = *dto.OrderIndex
	}
	if dto.IsActive != nil {
		subj.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(subj); err != nil {
		log.WithError(err).Error("Failed to update subject")
		return nil, err
	}

	log.WithField("subject_id", subj.ID).Info("Subject updated successfully")
	return subj, nil
}

// Delete removes the subject; modules, sections, questions and progress
// rows underneath it go with it through the cascade constraints.
func (s *subjectService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	subjectID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionDelete, policy.Resource{
		Table: policy.TableSubjects,
	}); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(subjectID); err != nil {
		return err
	}

	if err := s.repo.Delete(subjectID); err != nil {
		log.WithError(err).Error("Failed to delete subject")
		return err
	}

	log.WithField("subject_id", id).Info("Subject deleted successfully")
	return nil
}

func (s *subjectService) Reorder(ctx context.Context, dto ReorderDTO) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableSubjects,
	}); err != nil {
		return err
	}

	if err := s.repo.UpdateOrder(dto.Items); err != nil {
		log.WithError(err).Error("Failed to reorder subjects")
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
