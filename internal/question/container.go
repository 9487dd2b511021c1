package question

import (
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/section"
	"gorm.io/gorm"
)

type QuestionContainer struct {
	Handler *Handler
	Service QuestionService
	Repo    QuestionRepository
}

func NewQuestionContainer(db *gorm.DB, sectionRepo section.SectionRepository, authz *policy.Authorizer) *QuestionContainer {
	repo := NewRepository(db)
	service := NewService(repo, sectionRepo, authz)
	handler := NewHandler(service)

	return &QuestionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
