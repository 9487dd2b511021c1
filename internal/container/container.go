package container

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/config"
	coursemodule "github.com/upscpath/tracker-lambda/internal/module"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/progress"
	"github.com/upscpath/tracker-lambda/internal/question"
	"github.com/upscpath/tracker-lambda/internal/section"
	"github.com/upscpath/tracker-lambda/internal/subject"
	"github.com/upscpath/tracker-lambda/internal/user"
)

type Container struct {
	UserContainer     *user.UserContainer
	SubjectContainer  *subject.SubjectContainer
	ModuleContainer   *coursemodule.ModuleContainer
	SectionContainer  *section.SectionContainer
	QuestionContainer *question.QuestionContainer
	ProgressContainer *progress.ProgressContainer
	Authorizer        *policy.Authorizer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := config.DB.AutoMigrate(
		&user.User{},
		&subject.Subject{},
		&coursemodule.Module{},
		&section.Section{},
		&question.Question{},
		&progress.SectionProgress{},
		&progress.SubjectProgress{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	userRepo := user.NewRepository(config.DB)
	authorizer := policy.NewAuthorizer(policy.RoleResolverFunc(
		func(ctx context.Context, id uuid.UUID) (string, error) {
			role, err := userRepo.RoleByID(id)
			return string(role), err
		},
	))

	userContainer := user.NewUserContainer(config.DB, authorizer, user.NewGoogleProvider())
	subjectContainer := subject.NewSubjectContainer(config.DB, authorizer)
	moduleContainer := coursemodule.NewModuleContainer(config.DB, subjectContainer.Repo, authorizer)
	sectionContainer := section.NewSectionContainer(config.DB, moduleContainer.Repo, authorizer)
	questionContainer := question.NewQuestionContainer(config.DB, sectionContainer.Repo, authorizer)
	progressContainer := progress.NewProgressContainer(
		config.DB,
		sectionContainer.Repo,
		questionContainer.Repo,
		authorizer,
	)

	return &Container{
		UserContainer:     userContainer,
		SubjectContainer:  subjectContainer,
		ModuleContainer:   moduleContainer,
		SectionContainer:  sectionContainer,
		QuestionContainer: questionContainer,
		ProgressContainer: progressContainer,
		Authorizer:        authorizer,
	}
}
