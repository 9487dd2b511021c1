package subject

import (
	"github.com/upscpath/tracker-lambda/internal/policy"
	"gorm.io/gorm"
)

type SubjectContainer struct {
	Handler *Handler
	Service SubjectService
	Repo    SubjectRepository
}

func NewSubjectContainer(db *gorm.DB, authz *policy.Authorizer) *SubjectContainer {
	repo := NewRepository(db)
	service := NewService(repo, authz)
	handler := NewHandler(service)

	return &SubjectContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
