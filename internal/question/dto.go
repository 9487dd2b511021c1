package question

import (
	"github.com/google/uuid"
)

type CreateQuestionDTO struct {
	SectionID     string       `json:"section_id" validate:"required,uuid"`
	Question      string       `json:"question" validate:"required"`
	OptionA       string       `json:"option_a" validate:"required"`
	OptionB       string       `json:"option_b" validate:"required"`
	OptionC       string       `json:"option_c" validate:"required"`
	OptionD       string       `json:"option_d" validate:"required"`
	CorrectAnswer AnswerOption `json:"correct_answer" validate:"required"`
	Explanation   string       `json:"explanation"`
	OrderIndex    int          `json:"order_index"`
}

type UpdateQuestionDTO struct {
	Question      *string       `json:"question"`
	OptionA       *string       `json:"option_a"`
	OptionB       *string       `json:"option_b"`
	OptionC       *string       `json:"option_c"`
	OptionD       *string       `json:"option_d"`
	CorrectAnswer *AnswerOption `json:"correct_answer"`
	Explanation   *string       `json:"explanation"`
	OrderIndex    *int          `json:"order_index"`
}

type ReorderItem struct {
	ID         string `json:"id" validate:"required,uuid"`
	OrderIndex int    `json:"order_index"`
}

type ReorderDTO struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

// StudentQuestion is the shape students get while taking a test: the
// correct answer and the explanation stay server-side until submission.
type StudentQuestion struct {
	ID         uuid.UUID `json:"id"`
	SectionID  uuid.UUID `json:"section_id"`
	Question   string    `json:"question"`
	OptionA    string    `json:"option_a"`
	OptionB    string    `json:"option_b"`
	OptionC    string    `json:"option_c"`
	OptionD    string    `json:"option_d"`
	OrderIndex int       `json:"order_index"`
}

func toStudentQuestion(q *Question) *StudentQuestion {
	return &StudentQuestion{
		ID:         q.ID,
		SectionID:  q.SectionID,
		Question:   q.Question,
		OptionA:    q.OptionA,
		OptionB:    q.OptionB,
		OptionC:    q.OptionC,
		OptionD:    q.OptionD,
		OrderIndex: q.OrderIndex,
	}
}
