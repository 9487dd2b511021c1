package user

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	r.Patch("/me", h.UpdateMe)
	r.Get("/", h.ListUsers)
	r.Put("/{id}/role", h.PromoteRole)
	return r
}
