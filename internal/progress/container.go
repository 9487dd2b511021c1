package progress

import (
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/question"
	"github.com/upscpath/tracker-lambda/internal/section"
	"gorm.io/gorm"
)

type ProgressContainer struct {
	Handler *Handler
	Service ProgressService
	Repo    ProgressRepository
}

func NewProgressContainer(
	db *gorm.DB,
	sectionRepo section.SectionRepository,
	questionRepo question.QuestionRepository,
	authz *policy.Authorizer,
) *ProgressContainer {
	repo := NewRepository(db)
	service := NewService(repo, sectionRepo, questionRepo, authz)
	handler := NewHandler(service)

	return &ProgressContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
