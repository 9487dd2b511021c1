package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/sections", h.ListMySectionProgress)
	r.Put("/sections/{sectionId}", h.UpsertSectionProgress)
	r.Post("/sections/{sectionId}/submit", h.SubmitTest)
	r.Get("/subjects", h.ListMySubjectProgress)
	r.Get("/users/{userId}", h.ListSubjectProgressOfUser)
	r.Get("/reports/subjects/{subjectId}", h.ListSubjectProgressForSubject)

	return r
}
