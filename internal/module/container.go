package module

import (
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/subject"
	"gorm.io/gorm"
)

type ModuleContainer struct {
	Handler *Handler
	Service ModuleService
	Repo    ModuleRepository
}

func NewModuleContainer(db *gorm.DB, subjectRepo subject.SubjectRepository, authz *policy.Authorizer) *ModuleContainer {
	repo := NewRepository(db)
	service := NewService(repo, subjectRepo, authz)
	handler := NewHandler(service)

	return &ModuleContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
