package question

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/section"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidID       = errors.New("invalid id format")
	ErrInvalidAnswer   = errors.New("invalid correct answer")
	ErrNotTestSection  = errors.New("section is not a test")
	ErrSectionNotFound = section.ErrSectionNotFound
)

// ListResult carries either the full rows (admins) or the redacted
// student shape, never both.
type ListResult struct {
	Questions        []*Question        `json:"questions,omitempty"`
	StudentQuestions []*StudentQuestion `json:"student_questions,omitempty"`
}

// GetResult carries the same admin/student split as ListResult for a
// single row.
type GetResult struct {
	Question        *Question        `json:"question,omitempty"`
	StudentQuestion *StudentQuestion `json:"student_question,omitempty"`
}

type QuestionService interface {
	ListBySection(ctx context.Context, sectionID string) (*ListResult, error)
	GetByID(ctx context.Context, id string) (*GetResult, error)
	Create(ctx context.Context, dto CreateQuestionDTO) (*Question, error)
	Update(ctx context.Context, id string, dto UpdateQuestionDTO) (*Question, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, dto ReorderDTO) error
}

type questionService struct {
	repo        QuestionRepository
	sectionRepo section.SectionRepository
	authz       *policy.Authorizer
}

func NewService(repo QuestionRepository, sectionRepo section.SectionRepository, authz *policy.Authorizer) QuestionService {
	return &questionService{
		repo:        repo,
		sectionRepo: sectionRepo,
		authz:       authz,
	}
}

func (s *questionService) ListBySection(ctx context.Context, sectionID string) (*ListResult, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(sectionID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.sectionRepo.FindByID(sid); err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return nil, err
	}

	questions, err := s.repo.ListBySection(sid)
	if err != nil {
		log.WithError(err).Error("Failed to list questions")
		return nil, err
	}

	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if admin {
		return &ListResult{Questions: questions}, nil
	}

	redacted := make([]*StudentQuestion, 0, len(questions))
	for _, q := range questions {
		redacted = append(redacted, toStudentQuestion(q))
	}
	return &ListResult{StudentQuestions: redacted}, nil
}

func (s *questionService) GetByID(ctx context.Context, id string) (*GetResult, error) {
	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	questionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionSelect, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return nil, err
	}

	q, err := s.repo.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	admin, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if admin {
		return &GetResult{Question: q}, nil
	}
	return &GetResult{StudentQuestion: toStudentQuestion(q)}, nil
}

func (s *questionService) Create(ctx context.Context, dto CreateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionInsert, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return nil, err
	}

	if !dto.CorrectAnswer.IsValid() {
		return nil, ErrInvalidAnswer
	}

	sid, err := uuid.Parse(dto.SectionID)
	if err != nil {
		return nil, ErrInvalidID
	}
	sec, err := s.sectionRepo.FindByID(sid)
	if err != nil {
		return nil, err
	}
	if sec.Type != section.SectionTypeTest {
		return nil, ErrNotTestSection
	}

	q := Question{
		ID:            uuid.New(),
		SectionID:     sid,
		Question:      dto.Question,
		OptionA:       dto.OptionA,
		OptionB:       dto.OptionB,
		OptionC:       dto.OptionC,
		OptionD:       dto.OptionD,
		CorrectAnswer: dto.CorrectAnswer,
		Explanation:   dto.Explanation,
		OrderIndex:    dto.OrderIndex,
	}

	if err := s.repo.Create(&q); err != nil {
		log.WithError(err).Error("Failed to create question")
		return nil, err
	}

	log.WithField("question_id", q.ID).Info("Question created successfully")
	return &q, nil
}

func (s *questionService) Update(ctx context.Context, id string, dto UpdateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	questionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return nil, err
	}

	q, err := s.repo.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	if dto.Question != nil {
		q.Question = *dto.Question
	}
	if dto.OptionA != nil {
		q.OptionA = *dto.OptionA
	}
	if dto.OptionB != nil {
		q.OptionB = *dto.OptionB
	}
	if dto.OptionC != nil {
		q.OptionC = *dto.OptionC
	}
	if dto.OptionD != nil {
		q.OptionD = *dto.OptionD
	}
	if dto.CorrectAnswer != nil {
		if !dto.CorrectAnswer.IsValid() {
			return nil, ErrInvalidAnswer
		}
		q.CorrectAnswer = *dto.CorrectAnswer
	}
	if dto.Explanation != nil {
		q.Explanation = *dto.Explanation
	}
	if dto.OrderIndex != nil {
		q.OrderIndex = *dto.OrderIndex
	}

	if err := s.repo.Update(q); err != nil {
		log.WithError(err).Error("Failed to update question")
		return nil, err
	}

	log.WithField("question_id", q.ID).Info("Question updated successfully")
	return q, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	questionID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionDelete, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(questionID); err != nil {
		return err
	}

	if err := s.repo.Delete(questionID); err != nil {
		log.WithError(err).Error("Failed to delete question")
		return err
	}

	log.WithField("question_id", id).Info("Question deleted successfully")
	return nil
}

func (s *questionService) Reorder(ctx context.Context, dto ReorderDTO) error {
	log := config.WithContext(ctx)

	callerID, err := callerIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.authz.Authorize(ctx, callerID, policy.ActionUpdate, policy.Resource{
		Table: policy.TableQuestions,
	}); err != nil {
		return err
	}

	if err := s.repo.UpdateOrder(dto.Items); err != nil {
		log.WithError(err).Error("Failed to reorder questions")
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
