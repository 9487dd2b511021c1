package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/upscpath/tracker-lambda/internal/auth"
	"github.com/upscpath/tracker-lambda/internal/middlewares"
	coursemodule "github.com/upscpath/tracker-lambda/internal/module"
	"github.com/upscpath/tracker-lambda/internal/policy"
	"github.com/upscpath/tracker-lambda/internal/progress"
	"github.com/upscpath/tracker-lambda/internal/question"
	"github.com/upscpath/tracker-lambda/internal/section"
	"github.com/upscpath/tracker-lambda/internal/subject"
	"github.com/upscpath/tracker-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler     *user.Handler
	SubjectHandler  *subject.Handler
	ModuleHandler   *coursemodule.Handler
	SectionHandler  *section.Handler
	QuestionHandler *question.Handler
	ProgressHandler *progress.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/google", cfg.UserHandler.GoogleLogin)
		r.Post("/refresh", cfg.UserHandler.RefreshToken)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Use(policy.RoleCacheMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/subjects", subject.Routes(cfg.SubjectHandler))
		r.Mount("/modules", coursemodule.Routes(cfg.ModuleHandler))
		r.Mount("/sections", section.Routes(cfg.SectionHandler))
		r.Mount("/questions", question.Routes(cfg.QuestionHandler))
		r.Mount("/progress", progress.Routes(cfg.ProgressHandler))

		r.Get("/subjects/{subjectId}/modules", cfg.ModuleHandler.ListBySubject)
		r.Get("/modules/{moduleId}/sections", cfg.SectionHandler.ListByModule)
		r.Get("/sections/{sectionId}/questions", cfg.QuestionHandler.ListBySection)
	})
	return r
}
