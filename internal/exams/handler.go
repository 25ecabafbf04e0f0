package exams

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iRyanRib/genem/internal/auth"
	"github.com/iRyanRib/genem/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ExamCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	exam, err := h.store.Assemble(r.Context(), auth.UserID(r), req)
	if err != nil {
		log.Printf("assemble exam: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to assemble exam: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, models.ExamResponse{Success: true, Data: *exam})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	results, total, err := h.store.ListByUser(r.Context(), auth.UserID(r))
	if err != nil {
		log.Printf("list exams: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list exams"})
		return
	}
	if results == nil {
		results = []models.Exam{}
	}

	writeJSON(w, http.StatusOK, models.ExamListResponse{Success: true, Data: results, Total: total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.Get(r.Context(), auth.UserID(r), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch exam"})
		return
	}
	writeJSON(w, http.StatusOK, models.ExamResponse{Success: true, Data: *exam})
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	var req models.ExamAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	exam, err := h.store.RecordAnswer(r.Context(), auth.UserID(r), mux.Vars(r)["id"], req)
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam not found"})
		return
	case errors.Is(err, ErrExamFinished):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Exam is already finished"})
		return
	case errors.Is(err, ErrQuestionNotInExam):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Question is not part of this exam"})
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.ExamResponse{Success: true, Data: *exam})
}

func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.Finish(r.Context(), auth.UserID(r), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam not found"})
		return
	case errors.Is(err, ErrExamFinished):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Exam is already finished"})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to finish exam"})
		return
	}

	writeJSON(w, http.StatusOK, models.ExamResponse{Success: true, Data: *exam})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), auth.UserID(r), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exam not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete exam"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
