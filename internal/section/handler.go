package section

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/policy"
)

var validate = validator.New()

type Handler struct {
	service SectionService
}

func NewHandler(service SectionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListByModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID := chi.URLParam(r, "moduleId")
	if moduleID == "" {
		moduleID = r.URL.Query().Get("module_id")
	}
	if moduleID == "" {
		http.Error(w, "module id required", http.StatusBadRequest)
		return
	}

	sections, err := h.service.ListByModule(r.Context(), moduleID)
	if err != nil {
		writeError(w, log, err, "Failed to list sections")
		return
	}

	config.JSON(w, http.StatusOK, sections)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	sec, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err, "Failed to load section")
		return
	}

	config.JSON(w, http.StatusOK, sec)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateSectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sec, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, log, err, "Failed to create section")
		return
	}

	config.JSON(w, http.StatusCreated, sec)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateSectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sec, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, log, err, "Failed to update section")
		return
	}

	config.JSON(w, http.StatusOK, sec)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, log, err, "Failed to delete section")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto ReorderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Reorder(r.Context(), dto); err != nil {
		writeError(w, log, err, "Failed to reorder sections")
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "sections reordered",
	})
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error, msg string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, policy.ErrPermissionDenied):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidID):
		http.Error(w, "invalid id", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidType):
		http.Error(w, "invalid section type", http.StatusBadRequest)
	case errors.Is(err, ErrSectionNotFound):
		http.Error(w, "section not found", http.StatusNotFound)
	case errors.Is(err, ErrModuleNotFound):
		http.Error(w, "module not found", http.StatusNotFound)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
