package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	store *memoryStore
	mux   *http.ServeMux
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := newMemoryStore()
	handlers := NewHTTPHandlers(newTestService(store, ServiceOptions{}), zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", handlers.ListCategories)
	mux.HandleFunc("GET /categories/{id}/questions", handlers.QuestionsByCategory)
	mux.HandleFunc("GET /questions", handlers.ListQuestions)
	mux.HandleFunc("POST /questions", handlers.CreateQuestion)
	mux.HandleFunc("POST /questions/search", handlers.SearchQuestions)
	mux.HandleFunc("DELETE /questions/{id}", handlers.DeleteQuestion)
	mux.HandleFunc("POST /quizzes", handlers.PlayQuiz)
	mux.HandleFunc("/", handlers.NotFound)

	return &testAPI{store: store, mux: mux}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)

	var data map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&data))
	return rec.Code, data
}

func assertError(t *testing.T, data map[string]interface{}, status int, message string) {
	t.Helper()
	assert.Equal(t, false, data["success"])
	assert.Equal(t, float64(status), data["error"])
	assert.Equal(t, message, data["message"])
}

func TestHTTPGetAllCategories(t *testing.T) {
	api := newTestAPI(t)

	status, data := api.do(t, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	categories, ok := data["categories"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, categories, 6)
	assert.Equal(t, "Science", categories["1"])
}

func TestHTTPGetAllCategoriesStoreError(t *testing.T) {
	api := newTestAPI(t)
	api.store.err = errors.New("db down")

	status, data := api.do(t, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assertError(t, data, 500, "An error has occured, please try again")
}

func TestHTTPGetPaginatedQuestions(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(19)

	status, data := api.do(t, http.MethodGet, "/questions", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, float64(19), data["total_questions"])
	assert.Len(t, data["questions"], 10)
	assert.Len(t, data["categories"], 6)

	status, data = api.do(t, http.MethodGet, "/questions?page=2", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, data["questions"], 9)

	status, data = api.do(t, http.MethodGet, "/questions?page=abc", nil)
	assert.Equal(t, http.StatusOK, status, "a non-numeric page falls back to page 1")
	assert.Len(t, data["questions"], 10)
}

func TestHTTPOutOfBoundPage(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(19)

	status, data := api.do(t, http.MethodGet, "/questions?page=10000", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, data, 404, "Resource not found")
}

func TestHTTPDeleteQuestion(t *testing.T) {
	api := newTestAPI(t)
	q := api.store.add("test question", "test answer", 1, 1)
	path := fmt.Sprintf("/questions/%d", q.ID)

	status, data := api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "Question deleted successfully", data["message"])

	status, data = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")
}

func TestHTTPDeleteQuestionIDNotExist(t *testing.T) {
	api := newTestAPI(t)

	status, data := api.do(t, http.MethodDelete, "/questions/100001", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")
}

func TestHTTPDeleteQuestionInvalidID(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/questions/nev100000", "/questions/-1", "/questions/+3", "/questions/99999999999"} {
		status, data := api.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assertError(t, data, 404, "Resource not found")
	}
}

func TestHTTPCreateQuestion(t *testing.T) {
	api := newTestAPI(t)

	status, data := api.do(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   "test question",
		"answer":     "test answer",
		"difficulty": 1,
		"category":   "1",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "Question created successfully!", data["message"])

	id := int32(data["created"].(float64))
	stored, ok := api.store.questions[id]
	require.True(t, ok)
	assert.Equal(t, int32(1), stored.Category)
}

func TestHTTPCreateQuestionWithEmptyData(t *testing.T) {
	api := newTestAPI(t)

	bodies := []map[string]interface{}{
		{"question": "", "answer": "", "difficulty": 1, "category": 1},
		{"question": "q", "answer": "a", "difficulty": "", "category": 1},
		{"question": "q", "answer": "a", "difficulty": 1},
		{"question": "q", "answer": "a", "difficulty": "hard", "category": 1},
		{},
	}
	for _, body := range bodies {
		status, data := api.do(t, http.MethodPost, "/questions", body)
		assert.Equal(t, http.StatusUnprocessableEntity, status, "%v", body)
		assertError(t, data, 422, "unprocessable entity")
	}
	assert.Empty(t, api.store.questions)
}

func TestHTTPCreateQuestionWrongFieldTypes(t *testing.T) {
	api := newTestAPI(t)

	bodies := []string{
		`{"question":5,"answer":"a","difficulty":1,"category":1}`,
		`{"question":"q","answer":["a"],"difficulty":1,"category":1}`,
		`{"question":"q","answer":"a","difficulty":true,"category":1}`,
		`["q","a",1,1]`,
	}
	for _, body := range bodies {
		status, data := api.do(t, http.MethodPost, "/questions", body)
		assert.Equal(t, http.StatusUnprocessableEntity, status, body)
		assertError(t, data, 422, "unprocessable entity")
	}
	assert.Empty(t, api.store.questions)
}

func TestHTTPCreateQuestionStoreError(t *testing.T) {
	api := newTestAPI(t)
	api.store.insertErr = errors.New("insert failed")

	status, data := api.do(t, http.MethodPost, "/questions", map[string]interface{}{
		"question": "q", "answer": "a", "difficulty": 1, "category": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")
}

func TestHTTPMalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/questions", "/questions/search", "/quizzes"} {
		status, data := api.do(t, http.MethodPost, path, "{not json")
		assert.Equal(t, http.StatusBadRequest, status, path)
		assertError(t, data, 400, "Bad request error")
	}
}

func TestHTTPSearchQuestions(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(5)
	api.store.add("What is the largest lake in Africa?", "Lake Victoria", 3, 2)

	status, data := api.do(t, http.MethodPost, "/questions/search", map[string]string{
		"searchTerm": "What is the largest lake in Africa?",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	assert.Len(t, data["questions"], 1)
	assert.Equal(t, float64(6), data["total_questions"])
}

func TestHTTPSearchTermErrors(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(5)

	status, data := api.do(t, http.MethodPost, "/questions/search", map[string]string{"searchTerm": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")

	status, data = api.do(t, http.MethodPost, "/questions/search", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")

	status, data = api.do(t, http.MethodPost, "/questions/search", map[string]string{"searchTerm": "fgfgjjhdhfghgg"})
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, data, 404, "Resource not found")

	status, data = api.do(t, http.MethodPost, "/questions/search?page=2", map[string]string{"searchTerm": "question"})
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, data, 404, "Resource not found")
}

func TestHTTPQuestionsByCategory(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(12)

	status, data := api.do(t, http.MethodGet, "/categories/4/questions", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "History", data["current_questions"])
	assert.Equal(t, float64(2), data["total_questions"])
	assert.Len(t, data["questions"], 2)

	status, data = api.do(t, http.MethodGet, "/categories/4/questions?page=9", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, data["questions"])
}

func TestHTTPInvalidCategoryID(t *testing.T) {
	api := newTestAPI(t)

	status, data := api.do(t, http.MethodGet, "/categories/1000/questions", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, data, 422, "unprocessable entity")

	status, data = api.do(t, http.MethodGet, "/categories/history/questions", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, data, 404, "Resource not found")
}

func TestHTTPPlayQuiz(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(30)

	for i := 0; i < 20; i++ {
		status, data := api.do(t, http.MethodPost, "/quizzes", map[string]interface{}{
			"previous_questions": []int{4, 10},
			"quiz_category":      map[string]interface{}{"type": "History", "id": 4},
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, data["success"])

		question, ok := data["question"].(map[string]interface{})
		require.True(t, ok)
		assert.NotEqual(t, float64(4), question["id"])
		assert.NotEqual(t, float64(10), question["id"])
		assert.Equal(t, float64(4), question["category"])
	}
}

func TestHTTPPlayQuizStringCategoryID(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(12)

	status, data := api.do(t, http.MethodPost, "/quizzes", map[string]interface{}{
		"previous_questions": []int{},
		"quiz_category":      map[string]interface{}{"type": "click", "id": "0"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, data["question"])
}

func TestHTTPPlayQuizExhausted(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(12)

	status, data := api.do(t, http.MethodPost, "/quizzes", map[string]interface{}{
		"previous_questions": []int{4, 10},
		"quiz_category":      map[string]interface{}{"type": "History", "id": 4},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data["success"])
	assert.Contains(t, data, "question")
	assert.Nil(t, data["question"])
}

func TestHTTPNoDataToPlayQuiz(t *testing.T) {
	api := newTestAPI(t)

	bodies := []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"previous_questions": []int{1}},
		map[string]interface{}{"quiz_category": map[string]interface{}{"id": 1}},
		map[string]interface{}{"previous_questions": nil, "quiz_category": map[string]interface{}{"id": 1}},
		map[string]interface{}{"previous_questions": []int{}, "quiz_category": map[string]interface{}{"type": "Art"}},
	}
	for _, body := range bodies {
		status, data := api.do(t, http.MethodPost, "/quizzes", body)
		assert.Equal(t, http.StatusBadRequest, status, "%v", body)
		assertError(t, data, 400, "Bad request error")
	}
}

func TestHTTPUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	status, data := api.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, data, 404, "Resource not found")
}
