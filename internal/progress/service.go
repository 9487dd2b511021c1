package progress

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/question"
	"github.com/upscpath/tracker-lambda/internal/section"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidID       = errors.New("invalid id format")
	ErrNotTestSection  = errors.New("section is not a test")
	ErrNoQuestions     = errors.New("test section has no questions")
	ErrSectionNotFound = section.ErrSectionNotFound
)

type ProgressService interface {
	UpsertSectionProgress(ctx context.Context, sectionID string, dto UpsertSectionProgressDTO) (*SectionProgress, error)
	SubmitTest(ctx context.Context, sectionID string, dto SubmitTestDTO) (*TestResult, error)
	ListMySectionProgress(ctx context.Context, subjectID string) ([]*SectionProgress, error)
	ListMySubjectProgress(ctx context.Context) ([]*SubjectProgress, error)
	ListSubjectProgressOfUser(ctx context.Context, userID string) ([]*SubjectProgress, error)
	ListSubjectProgressForSubject(ctx context.Context, subjectID string) ([]*SubjectProgress, error)
}

type progressService struct {
	repo         ProgressRepository
	sectionRepo  section.SectionRepository
	questionRepo question.QuestionRepository
	authz        *policy.Authorizer
}

func NewService(
	repo ProgressRepository,
	sectionRepo section.SectionRepository,
	questionRepo question.QuestionRepository,
	authz *policy.Authorizer,
) ProgressService {
	return &progressService{
		repo:         repo,
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		authz:        authz,
	}
}

// UpsertSectionProgress marks a section done (or updates the score) for
// the calling account only. The subject rollup is recomputed in the
// same transaction, so success here means the aggregate already agrees.
func (s *progressService) UpsertSectionProgress(ctx context.Context, sectionID string, dto UpsertSectionProgressDTO) (*SectionProgress, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(sectionID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table:   policy.TableSectionProgress,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	if _, err := s.sectionRepo.FindByID(sid); err != nil {
		return nil, err
	}

	incoming := &SectionProgress{
		ID:        uuid.New(),
		UserID:    callerID,
		SectionID: sid,
	}
	if dto.Completed != nil {
		incoming.Completed = *dto.Completed
	}
	if dto.Score != nil {
		incoming.Score = *dto.Score
	}

	existing, err := s.repo.FindSectionProgress(callerID, sid)
	if err != nil && !errors.Is(err, ErrProgressNotFound) {
		return nil, err
	}

	merged := mergeSectionProgress(existing, incoming, dto.Score != nil, time.Now())
	if existing != nil {
		merged.ID = existing.ID
	}

	if err := s.repo.SaveSectionProgress(merged); err != nil {
		log.WithError(err).Error("Failed to save section progress")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"user_id":    callerID,
		"section_id": sid,
		"completed":  merged.Completed,
	}).Info("Section progress saved successfully")
	return merged, nil
}

// SubmitTest grades a test attempt. Completion is earned, not claimed:
// the flag is set only on a perfect score, and once set it stays set
// even if a later attempt scores lower.
func (s *progressService) SubmitTest(ctx context.Context, sectionID string, dto SubmitTestDTO) (*TestResult, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(sectionID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table:   policy.TableSectionProgress,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	sec, err := s.sectionRepo.FindByID(sid)
	if err != nil {
		return nil, err
	}
	if sec.Type != section.SectionTypeTest {
		return nil, ErrNotTestSection
	}

	questions, err := s.questionRepo.ListBySection(sid)
	if err != nil {
		log.WithError(err).Error("Failed to load questions for grading")
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	score, results := gradeSubmission(questions, dto.Answers)

	answersJSON, err := json.Marshal(dto.Answers)
	if err != nil {
		return nil, err
	}

	incoming := &SectionProgress{
		ID:          uuid.New(),
		UserID:      callerID,
		SectionID:   sid,
		Score:       score,
		Completed:   score == 100,
		LastAnswers: answersJSON,
	}

	existing, err := s.repo.FindSectionProgress(callerID, sid)
	if err != nil && !errors.Is(err, ErrProgressNotFound) {
		return nil, err
	}

	merged := mergeSectionProgress(existing, incoming, true, time.Now())
	if existing != nil {
		merged.ID = existing.ID
	}

	if err := s.repo.SaveSectionProgress(merged); err != nil {
		log.WithError(err).Error("Failed to save test submission")
		return nil, err
	}

	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}

	log.WithFields(map[string]interface{}{
		"user_id":    callerID,
		"section_id": sid,
		"score":      score,
		"attempts":   merged.Attempts,
	}).Info("Test submission graded successfully")

	return &TestResult{
		SectionID: sid,
		Score:     score,
		Total:     len(questions),
		Correct:   correct,
		Completed: merged.Completed,
		Attempts:  merged.Attempts,
		Results:   results,
	}, nil
}

func (s *progressService) ListMySectionProgress(ctx context.Context, subjectID string) ([]*SectionProgress, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:   policy.TableSectionProgress,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	var sid *uuid.UUID
	if subjectID != "" {
		parsed, err := uuid.Parse(subjectID)
		if err != nil {
			return nil, ErrInvalidID
		}
		sid = &parsed
	}

	return s.repo.ListSectionProgressByUser(callerID, sid)
}

func (s *progressService) ListMySubjectProgress(ctx context.Context) ([]*SubjectProgress, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:   policy.TableSubjectProgress,
		OwnerID: callerID,
	}); err != nil {
		return nil, err
	}

	return s.repo.ListSubjectProgressByUser(callerID)
}

// ListSubjectProgressOfUser is the admin reporting path: read-only
// visibility into another account's rollups.
func (s *progressService) ListSubjectProgressOfUser(ctx context.Context, userID string) ([]*SubjectProgress, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	targetID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table:   policy.TableSubjectProgress,
		OwnerID: targetID,
	}); err != nil {
		return nil, err
	}

	return s.repo.ListSubjectProgressByUser(targetID)
}

func (s *progressService) ListSubjectProgressForSubject(ctx context.Context, subjectID string) ([]*SubjectProgress, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// Rows for arbitrary owners: admin-only by the progress select rule.
	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableSubjectProgress,
	}); err != nil {
		return nil, err
	}

	return s.repo.ListSubjectProgressForSubject(sid)
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
