package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quiz-management-service/internal/domain"
)

// AnswerRepo persists participant answers through bun.
type AnswerRepo struct {
	db *bun.DB
}

func NewAnswerRepo(db *bun.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// UpsertAnswers records the whole batch in one transaction. Each row is an
// insert-or-overwrite on the (user_id, quiz_id, question_id) key, so
// resubmission corrects in place instead of duplicating.
func (r *AnswerRepo) UpsertAnswers(ctx context.Context, answers []*domain.Answer) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, answer := range answers {
			_, err := tx.NewInsert().Model(answer).
				On("CONFLICT (user_id, quiz_id, question_id) DO UPDATE").
				Set("option_id = EXCLUDED.option_id").
				Set("answered_at = EXCLUDED.answered_at").
				Returning("answered_at").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert answer: %w", err)
			}
		}
		return nil
	})
}

func (r *AnswerRepo) ListAnswers(ctx context.Context) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0)
	err := r.db.NewSelect().Model(&answers).
		Order("ua.answered_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

func (r *AnswerRepo) ListAnswersByQuiz(ctx context.Context, userID, quizID int64) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0)
	err := r.db.NewSelect().Model(&answers).
		Where("ua.user_id = ?", userID).
		Where("ua.quiz_id = ?", quizID).
		Order("ua.question_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list answers for quiz: %w", err)
	}
	return answers, nil
}

func (r *AnswerRepo) GetAnswer(ctx context.Context, userID, quizID, questionID int64) (*domain.Answer, error) {
	answer := new(domain.Answer)
	err := r.db.NewSelect().Model(answer).
		Where("ua.user_id = ?", userID).
		Where("ua.quiz_id = ?", quizID).
		Where("ua.question_id = ?", questionID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAnswerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select answer: %w", err)
	}
	return answer, nil
}

// UpdateAnswer overwrites one existing answer's option and refreshes its
// timestamp; it never inserts.
func (r *AnswerRepo) UpdateAnswer(ctx context.Context, userID, quizID, questionID, optionID int64) (*domain.Answer, error) {
	res, err := r.db.NewUpdate().Model((*domain.Answer)(nil)).
		Set("option_id = ?", optionID).
		Set("answered_at = CURRENT_TIMESTAMP").
		Where("user_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Where("question_id = ?", questionID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update answer: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, domain.ErrAnswerNotFound
	}
	return r.GetAnswer(ctx, userID, quizID, questionID)
}

func (r *AnswerRepo) DeleteAnswersForQuiz(ctx context.Context, userID, quizID int64) (int64, error) {
	res, err := r.db.NewDelete().Model((*domain.Answer)(nil)).
		Where("user_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}
