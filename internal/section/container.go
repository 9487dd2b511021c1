package section

import (
	"github.com/upscpath/tracker-lambda/internal/module"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"gorm.io/gorm"
)

type SectionContainer struct {
	Handler *Handler
	Service SectionService
	Repo    SectionRepository
}

func NewSectionContainer(db *gorm.DB, moduleRepo module.ModuleRepository, authz *policy.Authorizer) *SectionContainer {
	repo := NewRepository(db)
	service := NewService(repo, moduleRepo, authz)
	handler := NewHandler(service)

	return &SectionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
