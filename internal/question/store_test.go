package question

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// memoryStore satisfies both repository store interfaces with in-memory tables.
type memoryStore struct {
	mu         sync.Mutex
	categories []sqlcgen.Category
	questions  map[int32]sqlcgen.Question
	nextID     int32
	err        error
	insertErr  error
}

func newMemoryStore() *memoryStore {
	s := &memoryStore{
		categories: []sqlcgen.Category{
			{ID: 1, Type: "Science"},
			{ID: 2, Type: "Art"},
			{ID: 3, Type: "Geography"},
			{ID: 4, Type: "History"},
			{ID: 5, Type: "Entertainment"},
			{ID: 6, Type: "Sports"},
		},
		questions: map[int32]sqlcgen.Question{},
		nextID:    1,
	}
	return s
}

// seed inserts n questions spread across categories 1..6.
func (s *memoryStore) seed(n int) {
	for i := 0; i < n; i++ {
		s.add("Question "+string(rune('A'+i%26)), "Answer", int32(i%6)+1, int32(i%5)+1)
	}
}

func (s *memoryStore) add(text, answer string, category, difficulty int32) sqlcgen.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := sqlcgen.Question{ID: s.nextID, Question: text, Answer: answer, Category: category, Difficulty: difficulty}
	s.questions[q.ID] = q
	s.nextID++
	return q
}

func (s *memoryStore) sorted(filter func(sqlcgen.Question) bool) []sqlcgen.Question {
	out := make([]sqlcgen.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if filter == nil || filter(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) ListCategories(ctx context.Context) ([]sqlcgen.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]sqlcgen.Category(nil), s.categories...), nil
}

func (s *memoryStore) GetCategory(ctx context.Context, id int32) (sqlcgen.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sqlcgen.Category{}, s.err
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return sqlcgen.Category{}, pgx.ErrNoRows
}

func (s *memoryStore) ListQuestions(ctx context.Context) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.sorted(nil), nil
}

func (s *memoryStore) CountQuestions(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.questions)), nil
}

func (s *memoryStore) ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.sorted(func(q sqlcgen.Question) bool { return q.Category == category }), nil
}

// SearchQuestions understands the %term% patterns built by the repository.
func (s *memoryStore) SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	term := strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")
	term = strings.NewReplacer(`\%`, `%`, `\_`, `_`, `\\`, `\`).Replace(term)
	term = strings.ToLower(term)
	return s.sorted(func(q sqlcgen.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (s *memoryStore) GetQuestion(ctx context.Context, id int32) (sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return sqlcgen.Question{}, s.err
	}
	q, ok := s.questions[id]
	if !ok {
		return sqlcgen.Question{}, pgx.ErrNoRows
	}
	return q, nil
}

func (s *memoryStore) InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	if s.insertErr != nil {
		return sqlcgen.Question{}, s.insertErr
	}
	return s.add(arg.Question, arg.Answer, arg.Category, arg.Difficulty), nil
}

func (s *memoryStore) DeleteQuestion(ctx context.Context, id int32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.questions[id]; !ok {
		return 0, nil
	}
	delete(s.questions, id)
	return 1, nil
}

// intValue builds a present, valid FlexInt.
func intValue(v int) FlexInt {
	return FlexInt{Value: v, Present: true, Valid: true}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

type recordingObserver struct {
	mu         sync.Mutex
	outcomes   []string
	rejections int
}

func (o *recordingObserver) ObserveQuizDraw(outcome string, rejections int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
	o.rejections += rejections
}
