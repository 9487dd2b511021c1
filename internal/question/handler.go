package question

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
	service QuestionService
}

func NewHandler(service QuestionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListBySection(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	sectionID := chi.URLParam(r, "sectionId")
	if sectionID == "" {
		sectionID = r.URL.Query().Get("section_id")
	}
	if sectionID == "" {
		http.Error(w, "section id required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ListBySection(r.Context(), sectionID)
	if err != nil {
		writeError(w, log, err, "Failed to list questions")
		return
	}

	if result.Questions != nil {
		config.JSON(w, http.StatusOK, result.Questions)
		return
	}
	config.JSON(w, http.StatusOK, result.StudentQuestions)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	result, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err, "Failed to load question")
		return
	}

	if result.Question != nil {
		config.JSON(w, http.StatusOK, result.Question)
		return
	}
	config.JSON(w, http.StatusOK, result.StudentQuestion)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateQuestionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, log, err, "Failed to create question")
		return
	}

	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateQuestionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, log, err, "Failed to update question")
		return
	}

	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, log, err, "Failed to delete question")
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
		writeError(w, log, err, "Failed to reorder questions")
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "questions reordered",
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
	case errors.Is(err, ErrInvalidAnswer):
		http.Error(w, "invalid correct answer", http.StatusBadRequest)
	case errors.Is(err, ErrNotTestSection):
		http.Error(w, "section is not a test", http.StatusBadRequest)
	case errors.Is(err, ErrQuestionNotFound):
		http.Error(w, "question not found", http.StatusNotFound)
	case errors.Is(err, ErrSectionNotFound):
		http.Error(w, "section not found", http.StatusNotFound)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
