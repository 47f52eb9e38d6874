package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quiz-management-service/internal/domain"
)

// QuizRepo persists quizzes through bun.
type QuizRepo struct {
	db *bun.DB
}

func NewQuizRepo(db *bun.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// CreateQuiz inserts the quiz. A rejected quiz_token surfaces as
// domain.ErrTokenTaken so the service can regenerate and retry.
func (r *QuizRepo) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if _, err := r.db.NewInsert().Model(quiz).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTokenTaken
		}
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (r *QuizRepo) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	quiz := new(domain.Quiz)
	err := r.db.NewSelect().Model(quiz).Where("qz.quiz_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepo) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	quizzes := make([]domain.Quiz, 0)
	err := r.db.NewSelect().Model(&quizzes).
		Order("qz.created_at DESC").
		Order("qz.quiz_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (r *QuizRepo) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	res, err := r.db.NewUpdate().Model(quiz).
		Column("quiz_name", "description", "total_mark", "is_active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// DeleteQuiz removes the quiz row; questions and options follow through the
// ON DELETE CASCADE constraints.
func (r *QuizRepo) DeleteQuiz(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*domain.Quiz)(nil)).
		Where("quiz_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// GetQuizByToken resolves an access token. Inactive quizzes do not resolve.
func (r *QuizRepo) GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error) {
	quiz := new(domain.Quiz)
	err := r.db.NewSelect().Model(quiz).
		Where("qz.quiz_token = ?", token).
		Where("qz.is_active").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select quiz by token: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	exists, err := r.db.NewSelect().Model((*domain.Quiz)(nil)).
		Where("quiz_token = ?", token).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check quiz token: %w", err)
	}
	return exists, nil
}
