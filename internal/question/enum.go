package question

type AnswerOption string

const (
	AnswerA AnswerOption = "A"
	AnswerB AnswerOption = "B"
	AnswerC AnswerOption = "C"
	AnswerD AnswerOption = "D"
)

var AllAnswerOptions = []AnswerOption{
	AnswerA,
	AnswerB,
	AnswerC,
	AnswerD,
}

func (a AnswerOption) IsValid() bool {
	for _, v := range AllAnswerOptions {
		if a == v {
			return true
		}
	}
	return false
}
