package progress

import (
	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/question"
)

type UpsertSectionProgressDTO struct {
	Completed *bool `json:"completed"`
	Score     *int  `json:"score" validate:"omitempty,min=0,max=100"`
}

type SubmitTestDTO struct {
	// Answers maps question id to the chosen option letter.
	Answers map[string]question.AnswerOption `json:"answers" validate:"required,min=1"`
}

type QuestionResult struct {
	QuestionID    uuid.UUID             `json:"question_id"`
	Correct       bool                  `json:"correct"`
	Chosen        question.AnswerOption `json:"chosen,omitempty"`
	CorrectAnswer question.AnswerOption `json:"correct_answer"`
	Explanation   string                `json:"explanation,omitempty"`
}

type TestResult struct {
	SectionID uuid.UUID        `json:"section_id"`
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Correct   int              `json:"correct"`
	Completed bool             `json:"completed"`
	Attempts  int              `json:"attempts"`
	Results   []QuestionResult `json:"results"`
}
