package question

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// DefaultPageSize is the number of questions served per page.
const DefaultPageSize = 10

// AllCategories is the quiz category id that selects from every question.
const AllCategories = 0

// Question is the formatted payload delivered to clients.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Categories maps category id to its label.
type Categories map[int]string

// Page is one page of the full question listing.
type Page struct {
	Questions  []Question
	Total      int
	Categories Categories
}

// SearchResult is one page of search matches. Total counts the whole table.
type SearchResult struct {
	Questions []Question
	Total     int
}

// CategoryPage is one page of a category listing. Total counts matches only.
type CategoryPage struct {
	Questions []Question
	Total     int
	Category  string
}

// NewQuestion carries the fields required to create a question.
type NewQuestion struct {
	Question   string
	Answer     string
	Difficulty FlexInt
	Category   FlexInt
}

// QuizRequest selects the next quiz question.
type QuizRequest struct {
	CategoryID  int
	PreviousIDs []int
}

// Event types published after successful writes.
const (
	EventCreated = "question.created"
	EventDeleted = "question.deleted"
)

// Event describes a change to the question bank.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Question Question  `json:"question"`
	At       time.Time `json:"at"`
}

// FlexInt accepts a JSON number or a numeric string. Missing, null and empty
// string values leave Present false; anything else that is not an integer
// leaves Valid false. Decoding never fails so callers can choose the status.
type FlexInt struct {
	Value   int
	Present bool
	Valid   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			f.Present = true
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	f.Present = true
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Present || !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

func fromRow(row sqlcgen.Question) Question {
	return Question{
		ID:         int(row.ID),
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   int(row.Category),
		Difficulty: int(row.Difficulty),
	}
}

func fromRows(rows []sqlcgen.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}
