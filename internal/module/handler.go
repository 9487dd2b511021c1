package module

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
	service ModuleService
}

func NewHandler(service ModuleService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListBySubject(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	subjectID := chi.URLParam(r, "subjectId")
	if subjectID == "" {
		subjectID = r.URL.Query().Get("subject_id")
	}
	if subjectID == "" {
		http.Error(w, "subject id required", http.StatusBadRequest)
		return
	}

	modules, err := h.service.ListBySubject(r.Context(), subjectID)
	if err != nil {
		writeError(w, log, err, "Failed to list modules")
		return
	}

	config.JSON(w, http.StatusOK, modules)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	m, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err, "Failed to load module")
		return
	}

	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateModuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, log, err, "Failed to create module")
		return
	}

	config.JSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateModuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, log, err, "Failed to update module")
		return
	}

	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, log, err, "Failed to delete module")
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
		writeError(w, log, err, "Failed to reorder modules")
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "modules reordered",
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
	case errors.Is(err, ErrModuleNotFound):
		http.Error(w, "module not found", http.StatusNotFound)
	case errors.Is(err, ErrSubjectNotFound):
		http.Error(w, "subject not found", http.StatusNotFound)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
