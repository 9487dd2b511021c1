package progress

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
	service ProgressService
}

func NewHandler(service ProgressService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) UpsertSectionProgress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	sectionID := chi.URLParam(r, "sectionId")
	if sectionID == "" {
		http.Error(w, "section id required", http.StatusBadRequest)
		return
	}

	var dto UpsertSectionProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sp, err := h.service.UpsertSectionProgress(r.Context(), sectionID, dto)
	if err != nil {
		writeError(w, log, err, "Failed to save section progress")
		return
	}

	config.JSON(w, http.StatusOK, sp)
}

func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	sectionID := chi.URLParam(r, "sectionId")
	if sectionID == "" {
		http.Error(w, "section id required", http.StatusBadRequest)
		return
	}

	var dto SubmitTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitTest(r.Context(), sectionID, dto)
	if err != nil {
		writeError(w, log, err, "Failed to grade test submission")
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListMySectionProgress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	rows, err := h.service.ListMySectionProgress(r.Context(), r.URL.Query().Get("subject_id"))
	if err != nil {
		writeError(w, log, err, "Failed to list section progress")
		return
	}

	config.JSON(w, http.StatusOK, rows)
}

func (h *Handler) ListMySubjectProgress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	rows, err := h.service.ListMySubjectProgress(r.Context())
	if err != nil {
		writeError(w, log, err, "Failed to list subject progress")
		return
	}

	config.JSON(w, http.StatusOK, rows)
}

func (h *Handler) ListSubjectProgressOfUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	rows, err := h.service.ListSubjectProgressOfUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, log, err, "Failed to list user progress")
		return
	}

	config.JSON(w, http.StatusOK, rows)
}

func (h *Handler) ListSubjectProgressForSubject(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	rows, err := h.service.ListSubjectProgressForSubject(r.Context(), chi.URLParam(r, "subjectId"))
	if err != nil {
		writeError(w, log, err, "Failed to list subject report")
		return
	}

	config.JSON(w, http.StatusOK, rows)
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error, msg string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, policy.ErrPermissionDenied):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidID):
		http.Error(w, "invalid id", http.StatusBadRequest)
	case errors.Is(err, ErrNotTestSection):
		http.Error(w, "section is not a test", http.StatusBadRequest)
	case errors.Is(err, ErrNoQuestions):
		http.Error(w, "test section has no questions", http.StatusUnprocessableEntity)
	case errors.Is(err, ErrSectionNotFound):
		http.Error(w, "section not found", http.StatusNotFound)
	case errors.Is(err, ErrProgressNotFound):
		http.Error(w, "progress not found", http.StatusNotFound)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
