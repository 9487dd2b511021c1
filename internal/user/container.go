package user

import (
	"github.com/upscpath/tracker-lambda/internal/policy"
	"gorm.io/gorm"
)

type UserContainer struct {
	Handler *Handler
	Service UserService
	Repo    UserRepository
}

func NewUserContainer(db *gorm.DB, authz *policy.Authorizer, identity IdentityProvider) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, authz, identity)
	handler := NewHandler(service)

	return &UserContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
