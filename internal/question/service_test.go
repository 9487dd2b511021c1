package question

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/section"
)

type fakeQuestionRepo struct {
	questions map[uuid.UUID]*Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: map[uuid.UUID]*Question{}}
}

func (r *fakeQuestionRepo) Create(q *Question) error {
	r.questions[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uuid.UUID) (*Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (r *fakeQuestionRepo) ListBySection(sectionID uuid.UUID) ([]*Question, error) {
	var out []*Question
	for _, q := range r.questions {
		if q.SectionID == sectionID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) Update(q *Question) error {
	r.questions[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) Delete(id uuid.UUID) error {
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) UpdateOrder(items []ReorderItem) error {
	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return err
		}
		q, ok := r.questions[id]
		if !ok {
			return ErrQuestionNotFound
		}
		q.OrderIndex = item.OrderIndex
	}
	return nil
}

type fakeSectionRepo struct {
	sections map[uuid.UUID]*section.Section
}

func (r *fakeSectionRepo) Create(*section.Section) error { return nil }

func (r *fakeSectionRepo) FindByID(id uuid.UUID) (*section.Section, error) {
	sec, ok := r.sections[id]
	if !ok {
		return nil, section.ErrSectionNotFound
	}
	return sec, nil
}

func (r *fakeSectionRepo) ListByModule(uuid.UUID) ([]*section.Section, error) { return nil, nil }
func (r *fakeSectionRepo) Update(*section.Section) error                      { return nil }
func (r *fakeSectionRepo) Delete(uuid.UUID) error                             { return nil }
func (r *fakeSectionRepo) UpdateOrder([]section.ReorderItem) error            { return nil }

type questionFixture struct {
	service       QuestionService
	repo          *fakeQuestionRepo
	adminID       uuid.UUID
	studentID     uuid.UUID
	testSection   *section.Section
	sourceSection *section.Section
}

func newQuestionFixture(t *testing.T) *questionFixture {
	t.Helper()

	adminID := uuid.New()
	studentID := uuid.New()
	roles := map[uuid.UUID]string{
		adminID:   policy.RoleAdmin,
		studentID: policy.RoleStudent,
	}
	authz := policy.NewAuthorizer(policy.RoleResolverFunc(
		func(_ context.Context, id uuid.UUID) (string, error) {
			role, ok := roles[id]
			if !ok {
				return "", fmt.Errorf("no account %s", id)
			}
			return role, nil
		},
	))

	testSection := &section.Section{ID: uuid.New(), Name: "Prelims mock", Type: section.SectionTypeTest}
	sourceSection := &section.Section{ID: uuid.New(), Name: "NCERT chapter", Type: section.SectionTypeSource}
	sections := &fakeSectionRepo{sections: map[uuid.UUID]*section.Section{
		testSection.ID:   testSection,
		sourceSection.ID: sourceSection,
	}}

	repo := newFakeQuestionRepo()
	return &questionFixture{
		service:       NewService(repo, sections, authz),
		repo:          repo,
		adminID:       adminID,
		studentID:     studentID,
		testSection:   testSection,
		sourceSection: sourceSection,
	}
}

func authedContext(id uuid.UUID, role string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UserID: id.String(),
		Role:   role,
	})
}

func seedQuestion(t *testing.T, f *questionFixture) *Question {
	t.Helper()
	q := &Question{
		ID:            uuid.New(),
		SectionID:     f.testSection.ID,
		Question:      "Who presides over joint sittings of Parliament?",
		OptionA:       "The President",
		OptionB:       "The Speaker of the Lok Sabha",
		OptionC:       "The Vice President",
		OptionD:       "The Prime Minister",
		CorrectAnswer: AnswerB,
		Explanation:   "Article 118(4) assigns the chair to the Speaker.",
	}
	if err := f.repo.Create(q); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q
}

func TestListBySection(t *testing.T) {
	t.Run("StudentGetsRedactedRows", func(t *testing.T) {
		f := newQuestionFixture(t)
		seedQuestion(t, f)

		result, err := f.service.ListBySection(authedContext(f.studentID, policy.RoleStudent), f.testSection.ID.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Questions != nil {
			t.Error("students must not receive full rows")
		}
		if len(result.StudentQuestions) != 1 {
			t.Fatalf("expected 1 redacted question, got %d", len(result.StudentQuestions))
		}
		if result.StudentQuestions[0].Question == "" {
			t.Error("redacted row should keep the question text")
		}
	})

	t.Run("AdminGetsFullRows", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)

		result, err := f.service.ListBySection(authedContext(f.adminID, policy.RoleAdmin), f.testSection.ID.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StudentQuestions != nil {
			t.Error("admins get the full shape, not the redacted one")
		}
		if len(result.Questions) != 1 {
			t.Fatalf("expected 1 question, got %d", len(result.Questions))
		}
		if result.Questions[0].CorrectAnswer != q.CorrectAnswer {
			t.Error("admin rows should carry the correct answer")
		}
	})

	t.Run("UnknownSection", func(t *testing.T) {
		f := newQuestionFixture(t)

		_, err := f.service.ListBySection(authedContext(f.studentID, policy.RoleStudent), uuid.NewString())
		if !errors.Is(err, ErrSectionNotFound) {
			t.Errorf("expected section not found, got: %v", err)
		}
	})
}

func TestCreateQuestion(t *testing.T) {
	validDTO := func(sectionID uuid.UUID) CreateQuestionDTO {
		return CreateQuestionDTO{
			SectionID:     sectionID.String(),
			Question:      "Which schedule lists the official languages?",
			OptionA:       "Seventh",
			OptionB:       "Eighth",
			OptionC:       "Ninth",
			OptionD:       "Tenth",
			CorrectAnswer: AnswerB,
		}
	}

	t.Run("AdminCreatesOnTestSection", func(t *testing.T) {
		f := newQuestionFixture(t)

		q, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), validDTO(f.testSection.ID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.SectionID != f.testSection.ID {
			t.Error("question should hang off the test section")
		}
	})

	t.Run("NonTestSectionRejected", func(t *testing.T) {
		f := newQuestionFixture(t)

		_, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), validDTO(f.sourceSection.ID))
		if !errors.Is(err, ErrNotTestSection) {
			t.Errorf("expected not-a-test error, got: %v", err)
		}
	})

	t.Run("InvalidAnswerRejected", func(t *testing.T) {
		f := newQuestionFixture(t)
		dto := validDTO(f.testSection.ID)
		dto.CorrectAnswer = "E"

		_, err := f.service.Create(authedContext(f.adminID, policy.RoleAdmin), dto)
		if !errors.Is(err, ErrInvalidAnswer) {
			t.Errorf("expected invalid answer, got: %v", err)
		}
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newQuestionFixture(t)

		_, err := f.service.Create(authedContext(f.studentID, policy.RoleStudent), validDTO(f.testSection.ID))
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got: %v", err)
		}
	})
}

func TestUpdateQuestion(t *testing.T) {
	t.Run("AdminChangesCorrectAnswer", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)
		answer := AnswerC

		updated, err := f.service.Update(authedContext(f.adminID, policy.RoleAdmin), q.ID.String(), UpdateQuestionDTO{
			CorrectAnswer: &answer,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.CorrectAnswer != AnswerC {
			t.Errorf("expected answer C, got %s", updated.CorrectAnswer)
		}
	})

	t.Run("InvalidAnswerRejected", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)
		bad := AnswerOption("Z")

		_, err := f.service.Update(authedContext(f.adminID, policy.RoleAdmin), q.ID.String(), UpdateQuestionDTO{
			CorrectAnswer: &bad,
		})
		if !errors.Is(err, ErrInvalidAnswer) {
			t.Errorf("expected invalid answer, got: %v", err)
		}
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)
		text := "Edited"

		_, err := f.service.Update(authedContext(f.studentID, policy.RoleStudent), q.ID.String(), UpdateQuestionDTO{
			Question: &text,
		})
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got: %v", err)
		}
	})
}

func TestDeleteQuestion(t *testing.T) {
	t.Run("AdminDeletes", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)

		if err := f.service.Delete(authedContext(f.adminID, policy.RoleAdmin), q.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := f.repo.questions[q.ID]; ok {
			t.Error("question should be gone after delete")
		}
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newQuestionFixture(t)
		q := seedQuestion(t, f)

		err := f.service.Delete(authedContext(f.studentID, policy.RoleStudent), q.ID.String())
		if !errors.Is(err, policy.ErrPermissionDenied) {
			t.Errorf("expected permission denied, got: %v", err)
		}
	})
}
