package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const (
	msgDeleted = "Question deleted successfully"
	msgCreated = "Question created successfully!"
)

// HTTPHandlers provides the REST endpoints of the question bank.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for question endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "question_http").Logger(),
	}
}

type createQuestionRequest struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Difficulty FlexInt `json:"difficulty"`
	Category   FlexInt `json:"category"`
}

type searchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

type quizCategory struct {
	ID   FlexInt `json:"id"`
	Type string  `json:"type"`
}

type quizRequest struct {
	PreviousQuestions *[]int        `json:"previous_questions"`
	QuizCategory      *quizCategory `json:"quiz_category"`
}

// ListCategories handles GET /categories
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.log(r).Error().Err(err).Msg("failed to list categories")
		httperrors.RespondInternalError(w)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandlers) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"total_questions": page.Total,
		"categories":      page.Categories,
		"questions":       page.Questions,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		// a well formed id that cannot be deleted is a business failure, not a routing miss
		if !errors.Is(err, ErrNotFound) {
			h.log(r).Error().Err(err).Int("question_id", id).Msg("failed to delete question")
		}
		httperrors.RespondUnprocessable(w)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msgDeleted,
	})
}

// CreateQuestion handles POST /questions
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// well formed JSON with a wrongly typed field fails validation
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			httperrors.RespondUnprocessable(w)
			return
		}
		httperrors.RespondBadRequest(w)
		return
	}

	created, err := h.service.CreateQuestion(r.Context(), NewQuestion{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Category:   req.Category,
	})
	if err != nil {
		if !errors.Is(err, ErrInvalid) {
			h.log(r).Error().Err(err).Msg("failed to create question")
		}
		httperrors.RespondUnprocessable(w)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": msgCreated,
		"created": created.ID,
	})
}

// SearchQuestions handles POST /questions/search?page=N
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	if req.SearchTerm == nil {
		httperrors.RespondUnprocessable(w)
		return
	}

	result, err := h.service.SearchQuestions(r.Context(), *req.SearchTerm, pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// QuestionsByCategory handles GET /categories/{id}/questions?page=N
func (h *HTTPHandlers) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.service.QuestionsByCategory(r.Context(), id, pageParam(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"questions":         result.Questions,
		"total_questions":   result.Total,
		"current_questions": result.Category,
	})
}

// PlayQuiz handles POST /quizzes
func (h *HTTPHandlers) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	if req.PreviousQuestions == nil || req.QuizCategory == nil || !req.QuizCategory.ID.Valid {
		httperrors.RespondBadRequest(w)
		return
	}

	next, err := h.service.NextQuizQuestion(r.Context(), QuizRequest{
		CategoryID:  req.QuizCategory.ID.Value,
		PreviousIDs: *req.PreviousQuestions,
	})
	if errors.Is(err, ErrNoEligibleQuestion) {
		// a null question tells the client the game is over
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"question": nil,
		})
		return
	}
	if err != nil {
		h.log(r).Error().Err(err).Msg("failed to draw quiz question")
		httperrors.RespondInternalError(w)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": next,
	})
}

// NotFound answers unmatched routes with the standard envelope.
func (h *HTTPHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondNotFound(w)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrInvalid):
		httperrors.RespondUnprocessable(w)
	default:
		h.log(r).Error().Err(err).Msg("question request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *HTTPHandlers) log(r *http.Request) *zerolog.Logger {
	logger := logging.FromContextOr(r.Context(), h.logger)
	return &logger
}

// pageParam reads ?page=N; anything that is not an integer means page 1.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// pathID parses the {id} segment as a non-negative 31-bit integer. Anything
// else, including a sign, is treated as an unmatched route.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 31)
	if err != nil {
		return 0, false
	}
	return int(id), true
}
