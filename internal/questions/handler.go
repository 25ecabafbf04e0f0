package questions

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iRyanRib/genem/internal/auth"
	"github.com/iRyanRib/genem/internal/models"
)

const defaultPageSize = 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseQuestionQuery(query url.Values) models.QuestionQuery {
	return models.QuestionQuery{
		Page:       intQueryParam(query, "page", 1),
		PageSize:   pageSizeParam(query),
		Search:     query.Get("search"),
		Index:      intQueryParam(query, "index", 0),
		Discipline: models.Discipline(query.Get("discipline")),
		Year:       intQueryParam(query, "year", 0),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := parseQuestionQuery(r.URL.Query())

	results, total, err := h.service.store.List(r.Context(), q)
	if err != nil {
		log.Printf("list questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list questions"})
		return
	}
	if results == nil {
		results = []models.Question{}
	}

	writeJSON(w, http.StatusOK, models.QuestionListResponse{
		Success:  true,
		Data:     results,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	question, err := h.service.store.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch question"})
		return
	}

	writeJSON(w, http.StatusOK, models.QuestionResponse{Success: true, Data: *question})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := ValidateQuestionCreate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.service.store.Create(r.Context(), req)
	if err != nil {
		log.Printf("create question: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create question"})
		return
	}

	writeJSON(w, http.StatusCreated, models.QuestionResponse{Success: true, Data: *question})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.QuestionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := ValidateQuestionCreate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.service.store.Update(r.Context(), id, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update question"})
		return
	}

	writeJSON(w, http.StatusOK, models.QuestionResponse{Success: true, Data: *question})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.service.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete question"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Questions) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No questions to import"})
		return
	}

	imported, skipped, errs := h.service.Import(r.Context(), req.Questions)
	writeJSON(w, http.StatusOK, models.QuestionImportResponse{
		Success:  true,
		Imported: imported,
		Skipped:  skipped,
		Errors:   errs,
	})
}

func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.store.DistinctYears(r.Context())
	if err != nil {
		log.Printf("distinct years: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list years"})
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": years})
}

func (h *Handler) ListGenerated(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := models.GeneratedQuestionQuery{
		Page:             intQueryParam(query, "page", 1),
		PageSize:         pageSizeParam(query),
		Search:           query.Get("search"),
		User:             query.Get("user"),
		Discipline:       models.Discipline(query.Get("discipline")),
		Year:             intQueryParam(query, "year", 0),
		SourceQuestionID: query.Get("source_question_id"),
	}

	results, total, err := h.service.store.ListGenerated(r.Context(), q)
	if err != nil {
		log.Printf("list generated questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list generated questions"})
		return
	}
	if results == nil {
		results = []models.GeneratedQuestion{}
	}

	writeJSON(w, http.StatusOK, models.GeneratedQuestionListResponse{
		Success:  true,
		Data:     results,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

func (h *Handler) GetGenerated(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	question, err := h.service.store.GetGeneratedByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Generated question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch generated question"})
		return
	}

	writeJSON(w, http.StatusOK, models.GeneratedQuestionResponse{Success: true, Data: *question})
}

func (h *Handler) UpdateGenerated(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.GeneratedQuestionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := ValidateQuestionCreate(req.QuestionCreate); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.service.store.UpdateGenerated(r.Context(), id, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Generated question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update generated question"})
		return
	}

	writeJSON(w, http.StatusOK, models.GeneratedQuestionResponse{Success: true, Data: *question})
}

func (h *Handler) DeleteGenerated(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.service.store.DeleteGenerated(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Generated question not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete generated question"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Generate runs the LLM pipeline for a source question and stores the
// result.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.QuestionID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_id is required"})
		return
	}

	userID := auth.UserID(r)

	question, refinements, err := h.service.GenerateFromQuestion(r.Context(), req.QuestionID, userID, req.MaxRefinements)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Source question not found"})
		return
	}
	if err != nil {
		log.Printf("question generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Generation failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, models.GenerateQuestionResponse{
		Success: true,
		Data:    *question,
		Message: "Question generated after " + strconv.Itoa(refinements) + " refinement(s)",
	})
}

// RotationStats reports credential pool usage for the generation pipeline.
func (h *Handler) RotationStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.service.RotationStats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

// pageSizeParam allows -1 to request the full result set.
func pageSizeParam(query url.Values) int {
	s := query.Get("pageSize")
	if s == "" {
		return defaultPageSize
	}
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 || v < -1 {
		return defaultPageSize
	}
	return v
}
