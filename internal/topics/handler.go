package topics

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iRyanRib/genem/internal/models"
)

const defaultPageSize = 50

// distinctFields maps the exposed taxonomy levels to their stored fields.
var distinctFields = map[string]string{
	"fields": "field",
	"areas":  "area",
}

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	pageSize := defaultPageSize
	if v, err := strconv.Atoi(query.Get("pageSize")); err == nil && (v > 0 || v == -1) {
		pageSize = v
	}
	page := 1
	if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
		page = v
	}

	q := models.QuestionTopicQuery{
		Page:      page,
		PageSize:  pageSize,
		Search:    query.Get("search"),
		Field:     query.Get("field"),
		Area:      query.Get("area"),
		FieldCode: query.Get("field_code"),
		AreaCode:  query.Get("area_code"),
	}

	results, total, err := h.store.List(r.Context(), q)
	if err != nil {
		log.Printf("list topics: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list topics"})
		return
	}
	if results == nil {
		results = []models.QuestionTopic{}
	}

	writeJSON(w, http.StatusOK, models.QuestionTopicListResponse{
		Success:  true,
		Data:     results,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	topic, err := h.store.GetByID(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Topic not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch topic"})
		return
	}
	writeJSON(w, http.StatusOK, models.QuestionTopicResponse{Success: true, Data: *topic})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionTopicCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := validateTopicCreate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	topic, err := h.store.Create(r.Context(), req)
	if err != nil {
		log.Printf("create topic: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create topic"})
		return
	}
	writeJSON(w, http.StatusCreated, models.QuestionTopicResponse{Success: true, Data: *topic})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionTopicCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := validateTopicCreate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	topic, err := h.store.Update(r.Context(), mux.Vars(r)["id"], req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Topic not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update topic"})
		return
	}
	writeJSON(w, http.StatusOK, models.QuestionTopicResponse{Success: true, Data: *topic})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Topic not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete topic"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Distinct serves /topics/distinct/{level} for the taxonomy levels in
// distinctFields.
func (h *Handler) Distinct(w http.ResponseWriter, r *http.Request) {
	level := mux.Vars(r)["level"]
	field, ok := distinctFields[level]
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown taxonomy level: " + level})
		return
	}

	values, err := h.store.DistinctValues(r.Context(), field)
	if err != nil {
		log.Printf("distinct topics: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list values"})
		return
	}
	if values == nil {
		values = []string{}
	}

	writeJSON(w, http.StatusOK, models.DistinctValuesResponse{
		Success: true,
		Data:    values,
		Total:   len(values),
	})
}

func validateTopicCreate(create models.QuestionTopicCreate) error {
	if strings.TrimSpace(create.Field) == "" {
		return errors.New("field is required")
	}
	if strings.TrimSpace(create.SpecificTopic) == "" {
		return errors.New("specific_topic is required")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
