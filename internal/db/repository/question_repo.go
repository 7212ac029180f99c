package repository

import (
	"context"
	"strings"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	CountQuestions(ctx context.Context) (int64, error)
	ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error)
	GetQuestion(ctx context.Context, id int32) (sqlcgen.Question, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int32) (int64, error)
}

// QuestionRepository wraps sqlc queries for question bank access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// ListAll returns every question ordered by id ascending.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]sqlcgen.Question, error) {
	return r.store.ListQuestions(ctx)
}

// Count returns the size of the whole questions table.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	return r.store.CountQuestions(ctx)
}

// ListByCategory returns the questions of one category ordered by id.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	return r.store.ListQuestionsByCategory(ctx, category)
}

// Search performs a case-insensitive substring match on question text.
// LIKE wildcards inside term are matched literally.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	return r.store.SearchQuestions(ctx, "%"+escapeLike(term)+"%")
}

// Get fetches a question by id, returning ErrNotFound when missing.
func (r *QuestionRepository) Get(ctx context.Context, id int32) (sqlcgen.Question, error) {
	q, err := r.store.GetQuestion(ctx, id)
	if err != nil {
		return sqlcgen.Question{}, mapNoRows(err)
	}
	return q, nil
}

// Insert stores a new question and returns the row with its assigned id.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	return r.store.InsertQuestion(ctx, params)
}

// Delete removes a question. Deleting a missing id yields ErrNotFound.
func (r *QuestionRepository) Delete(ctx context.Context, id int32) error {
	affected, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
