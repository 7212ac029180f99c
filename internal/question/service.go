package question

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

var (
	// ErrNotFound covers empty pages, zero search matches and missing questions.
	ErrNotFound = errors.New("question not found")
	// ErrInvalid covers input that is well formed but fails validation.
	ErrInvalid = errors.New("invalid question request")
)

// Quiz draw outcomes reported to the QuizObserver.
const (
	OutcomeServed    = "served"
	OutcomeExhausted = "exhausted"
)

// EventPublisher fans out question bank changes (implemented by the Redis publisher).
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// QuizObserver records quiz draw statistics (implemented by metrics.Metrics).
type QuizObserver interface {
	ObserveQuizDraw(outcome string, rejections int)
}

type ServiceOptions struct {
	PageSize int
	MaxDraws int
	// Intn overrides the random source of the quiz selector.
	Intn     func(n int) int
	Events   EventPublisher
	Observer QuizObserver
}

// Service implements the question bank operations on top of the repositories.
type Service struct {
	categories *repository.CategoryRepository
	questions  *repository.QuestionRepository
	selector   *Selector
	events     EventPublisher
	observer   QuizObserver
	pageSize   int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(categories *repository.CategoryRepository, questions *repository.QuestionRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		categories: categories,
		questions:  questions,
		selector:   NewSelector(opts.MaxDraws, opts.Intn),
		events:     opts.Events,
		observer:   opts.Observer,
		pageSize:   pageSize,
		logger:     logger.With().Str("component", "question_service").Logger(),
		now:        time.Now,
	}
}

// Categories returns every category as an id to label map.
func (s *Service) Categories(ctx context.Context) (Categories, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make(Categories, len(rows))
	for _, row := range rows {
		out[int(row.ID)] = row.Type
	}
	return out, nil
}

// ListQuestions returns one page of all questions ordered by id.
// An empty page is ErrNotFound.
func (s *Service) ListQuestions(ctx context.Context, page int) (Page, error) {
	rows, err := s.questions.ListAll(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list questions: %w", err)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return Page{}, err
	}

	current := Paginate(fromRows(rows), page, s.pageSize)
	if len(current) == 0 {
		return Page{}, fmt.Errorf("page %d: %w", page, ErrNotFound)
	}
	return Page{
		Questions:  current,
		Total:      len(rows),
		Categories: categories,
	}, nil
}

// SearchQuestions matches term against question text. An empty term is
// ErrInvalid; no matches or an empty page is ErrNotFound.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (SearchResult, error) {
	if term == "" {
		return SearchResult{}, fmt.Errorf("empty search term: %w", ErrInvalid)
	}

	rows, err := s.questions.Search(ctx, term)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search questions: %w", err)
	}
	if len(rows) == 0 {
		return SearchResult{}, fmt.Errorf("search %q: %w", term, ErrNotFound)
	}

	current := Paginate(fromRows(rows), page, s.pageSize)
	if len(current) == 0 {
		return SearchResult{}, fmt.Errorf("search page %d: %w", page, ErrNotFound)
	}

	total, err := s.questions.Count(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("count questions: %w", err)
	}
	return SearchResult{Questions: current, Total: int(total)}, nil
}

// QuestionsByCategory lists one page of a category. An unknown category is
// ErrInvalid; a page past the end is returned empty rather than ErrNotFound.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID, page int) (CategoryPage, error) {
	id, ok := toInt32(categoryID)
	if !ok {
		return CategoryPage{}, fmt.Errorf("category %d: %w", categoryID, ErrInvalid)
	}
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CategoryPage{}, fmt.Errorf("category %d: %w", categoryID, ErrInvalid)
		}
		return CategoryPage{}, fmt.Errorf("get category: %w", err)
	}

	rows, err := s.questions.ListByCategory(ctx, id)
	if err != nil {
		return CategoryPage{}, fmt.Errorf("list category questions: %w", err)
	}
	return CategoryPage{
		Questions: Paginate(fromRows(rows), page, s.pageSize),
		Total:     len(rows),
		Category:  category.Type,
	}, nil
}

// CreateQuestion validates and inserts a question. The referenced category is
// not checked for existence.
func (s *Service) CreateQuestion(ctx context.Context, req NewQuestion) (Question, error) {
	if err := validateNew(req); err != nil {
		return Question{}, err
	}
	difficulty, ok := toInt32(req.Difficulty.Value)
	if !ok {
		return Question{}, fmt.Errorf("difficulty out of range: %w", ErrInvalid)
	}
	category, ok := toInt32(req.Category.Value)
	if !ok {
		return Question{}, fmt.Errorf("category out of range: %w", ErrInvalid)
	}

	row, err := s.questions.Insert(ctx, sqlcgen.InsertQuestionParams{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   category,
		Difficulty: difficulty,
	})
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}

	created := fromRow(row)
	s.publish(ctx, EventCreated, created)
	return created, nil
}

// DeleteQuestion looks the question up and removes it. A missing row, whether
// never created or already deleted, is ErrNotFound.
func (s *Service) DeleteQuestion(ctx context.Context, id int) error {
	qid, ok := toInt32(id)
	if !ok {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	row, err := s.questions.Get(ctx, qid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("get question: %w", err)
	}
	if err := s.questions.Delete(ctx, qid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete question: %w", err)
	}

	s.publish(ctx, EventDeleted, fromRow(row))
	return nil
}

// NextQuizQuestion picks a random question of the requested category (or any
// category for AllCategories) that is not among req.PreviousIDs. When nothing
// is left to ask it returns ErrNoEligibleQuestion.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (Question, error) {
	var (
		rows []sqlcgen.Question
		err  error
	)
	if req.CategoryID == AllCategories {
		rows, err = s.questions.ListAll(ctx)
	} else {
		id, ok := toInt32(req.CategoryID)
		if !ok {
			s.observe(OutcomeExhausted, 0)
			return Question{}, ErrNoEligibleQuestion
		}
		rows, err = s.questions.ListByCategory(ctx, id)
	}
	if err != nil {
		return Question{}, fmt.Errorf("load quiz pool: %w", err)
	}

	picked, rejections, err := s.selector.Pick(fromRows(rows), idSet(req.PreviousIDs))
	if err != nil {
		s.observe(OutcomeExhausted, rejections)
		return Question{}, err
	}
	s.observe(OutcomeServed, rejections)
	return picked, nil
}

func (s *Service) publish(ctx context.Context, eventType string, q Question) {
	if s.events == nil {
		return
	}
	evt := Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		Question: q,
		At:       s.now().UTC(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int("question_id", q.ID).Msg("question event publish failed")
	}
}

func (s *Service) observe(outcome string, rejections int) {
	if s.observer != nil {
		s.observer.ObserveQuizDraw(outcome, rejections)
	}
}

func validateNew(req NewQuestion) error {
	switch {
	case req.Question == "":
		return fmt.Errorf("question is required: %w", ErrInvalid)
	case req.Answer == "":
		return fmt.Errorf("answer is required: %w", ErrInvalid)
	case !req.Difficulty.Present:
		return fmt.Errorf("difficulty is required: %w", ErrInvalid)
	case !req.Category.Present:
		return fmt.Errorf("category is required: %w", ErrInvalid)
	case !req.Difficulty.Valid:
		return fmt.Errorf("difficulty must be an integer: %w", ErrInvalid)
	case !req.Category.Valid:
		return fmt.Errorf("category must be an integer: %w", ErrInvalid)
	}
	return nil
}

func toInt32(v int) (int32, bool) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}
