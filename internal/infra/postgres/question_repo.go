package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quiz-management-service/internal/domain"
)

// QuestionRepo persists the question/option tree. Multi-row mutations run in
// one bun transaction so a failed item rolls back the whole batch.
type QuestionRepo struct {
	db *bun.DB
}

func NewQuestionRepo(db *bun.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateBatch inserts every question, then its options, in input order. Any
// failure aborts the transaction and leaves zero rows behind.
func (r *QuestionRepo) CreateBatch(ctx context.Context, questions []*domain.Question) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, question := range questions {
			if _, err := tx.NewInsert().Model(question).Exec(ctx); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			for i := range question.Options {
				question.Options[i].QuestionID = question.ID
				if _, err := tx.NewInsert().Model(&question.Options[i]).Exec(ctx); err != nil {
					return fmt.Errorf("insert option: %w", err)
				}
			}
		}
		return nil
	})
}

func (r *QuestionRepo) GetWithOptions(ctx context.Context, id int64) (*domain.Question, error) {
	question := new(domain.Question)
	err := r.db.NewSelect().Model(question).Where("q.question_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select question: %w", err)
	}

	question.Options = make([]domain.Option, 0)
	err = r.db.NewSelect().Model(&question.Options).
		Where("o.question_id = ?", id).
		Order("o.option_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select options: %w", err)
	}
	return question, nil
}

// ListWithOptions reads questions and options as two flat result sets and
// reassembles the nested trees with a keyed accumulation pass: options are
// grouped by question id and attached in the questions' first-seen order.
func (r *QuestionRepo) ListWithOptions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	questions := make([]domain.Question, 0)
	q := r.db.NewSelect().Model(&questions).
		Order("q.created_at DESC").
		Order("q.question_id DESC")
	if quizID != 0 {
		q = q.Where("q.quiz_id = ?", quizID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	ids := make([]int64, len(questions))
	byID := make(map[int64]*domain.Question, len(questions))
	for i := range questions {
		questions[i].Options = make([]domain.Option, 0)
		ids[i] = questions[i].ID
		byID[questions[i].ID] = &questions[i]
	}

	options := make([]domain.Option, 0)
	err := r.db.NewSelect().Model(&options).
		Where("o.question_id IN (?)", bun.In(ids)).
		Order("o.option_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	for _, option := range options {
		if question, ok := byID[option.QuestionID]; ok {
			question.Options = append(question.Options, option)
		}
	}
	return questions, nil
}

// UpdateWithOptions rewrites text/points and replaces the option set in one
// transaction. A missing question aborts before the option table is touched.
func (r *QuestionRepo) UpdateWithOptions(ctx context.Context, question *domain.Question) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := new(domain.Question)
		err := tx.NewSelect().Model(existing).
			Where("q.question_id = ?", question.ID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrQuestionNotFound
		}
		if err != nil {
			return fmt.Errorf("select question: %w", err)
		}
		question.QuizID = existing.QuizID
		question.CreatedAt = existing.CreatedAt

		if _, err := tx.NewUpdate().Model(question).
			Column("question_text", "points").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update question: %w", err)
		}

		if _, err := tx.NewDelete().Model((*domain.Option)(nil)).
			Where("question_id = ?", question.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete options: %w", err)
		}

		for i := range question.Options {
			question.Options[i].QuestionID = question.ID
			if _, err := tx.NewInsert().Model(&question.Options[i]).Exec(ctx); err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
		}
		return nil
	})
}

// DeleteQuestion deletes the question row; the options go with it through
// the cascade constraint.
func (r *QuestionRepo) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*domain.Question)(nil)).
		Where("question_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
