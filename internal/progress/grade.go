package progress

import (
	"github.com/upscpath/tracker-lambda/internal/question"
)

// gradeSubmission scores a set of answers against the section's
// questions. The score is the integer percentage of correct answers;
// an unanswered question counts as wrong. 100 requires every question
// correct, which is the only score that marks the section completed.
func gradeSubmission(questions []*question.Question, answers map[string]question.AnswerOption) (int, []QuestionResult) {
	if len(questions) == 0 {
		return 0, nil
	}

	correct := 0
	results := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		chosen := answers[q.ID.String()]
		isCorrect := chosen == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			Correct:       isCorrect,
			Chosen:        chosen,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	score := correct * 100 / len(questions)
	return score, results
}
