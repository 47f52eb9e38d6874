package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-management-service/internal/domain"
)

// ResultRepo persists scores over raw SQL on a pgx pool: the score
// aggregation is a single join the ORM adds nothing to, and the upsert must
// share its transaction.
type ResultRepo struct {
	pool *pgxpool.Pool
}

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

const scoreQuery = `
SELECT COALESCE(SUM(CASE WHEN o.is_correct THEN q.points ELSE 0 END), 0)
FROM user_answers ua
JOIN options o ON ua.option_id = o.option_id
JOIN questions q ON ua.question_id = q.question_id
WHERE ua.user_id = $1 AND ua.quiz_id = $2`

const upsertResultQuery = `
INSERT INTO user_results (user_id, quiz_id, score, completed_at)
VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
ON CONFLICT (user_id, quiz_id)
DO UPDATE SET score = EXCLUDED.score, completed_at = EXCLUDED.completed_at
RETURNING result_id, user_id, quiz_id, score, completed_at`

const resultColumns = `result_id, user_id, quiz_id, score, completed_at`

// ComputeAndStore aggregates the participant's answers against option
// correctness and question points and upserts the (user, quiz) result row,
// both inside one transaction. Unanswered quizzes store a zero score.
func (r *ResultRepo) ComputeAndStore(ctx context.Context, userID, quizID int64) (*domain.Result, error) {
	var result domain.Result
	err := r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var score int
		if err := tx.QueryRow(ctx, scoreQuery, userID, quizID).Scan(&score); err != nil {
			return fmt.Errorf("compute score: %w", err)
		}
		if err := tx.QueryRow(ctx, upsertResultQuery, userID, quizID, score).
			Scan(&result.ID, &result.UserID, &result.QuizID, &result.Score, &result.CompletedAt); err != nil {
			return fmt.Errorf("upsert result: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateResult is a plain insert: a duplicate (user, quiz) pair hits the
// uniqueness constraint and surfaces as domain.ErrResultExists.
func (r *ResultRepo) CreateResult(ctx context.Context, result *domain.Result) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_results (user_id, quiz_id, score) VALUES ($1, $2, $3) RETURNING `+resultColumns,
		result.UserID, result.QuizID, result.Score,
	).Scan(&result.ID, &result.UserID, &result.QuizID, &result.Score, &result.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrResultExists
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepo) GetResult(ctx context.Context, id int64) (*domain.Result, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM user_results WHERE result_id = $1`, id))
}

func (r *ResultRepo) ListResults(ctx context.Context) ([]domain.Result, error) {
	return r.scanMany(ctx,
		`SELECT `+resultColumns+` FROM user_results ORDER BY completed_at DESC, result_id DESC`)
}

func (r *ResultRepo) ListResultsByUser(ctx context.Context, userID int64) ([]domain.Result, error) {
	return r.scanMany(ctx,
		`SELECT `+resultColumns+` FROM user_results WHERE user_id = $1 ORDER BY completed_at DESC, result_id DESC`,
		userID)
}

// ListResultsByQuiz returns quiz standings: score descending, earlier
// completion winning ties.
func (r *ResultRepo) ListResultsByQuiz(ctx context.Context, quizID int64) ([]domain.Result, error) {
	return r.scanMany(ctx,
		`SELECT `+resultColumns+` FROM user_results WHERE quiz_id = $1 ORDER BY score DESC, completed_at ASC`,
		quizID)
}

func (r *ResultRepo) GetUserQuizResult(ctx context.Context, userID, quizID int64) (*domain.Result, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM user_results WHERE user_id = $1 AND quiz_id = $2`, userID, quizID))
}

func (r *ResultRepo) UpdateResultScore(ctx context.Context, id int64, score int) (*domain.Result, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE user_results SET score = $1, completed_at = CURRENT_TIMESTAMP WHERE result_id = $2 RETURNING `+resultColumns,
		score, id))
}

func (r *ResultRepo) DeleteResult(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_results WHERE result_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResultNotFound
	}
	return nil
}

func (r *ResultRepo) scanOne(row pgx.Row) (*domain.Result, error) {
	var result domain.Result
	err := row.Scan(&result.ID, &result.UserID, &result.QuizID, &result.Score, &result.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	return &result, nil
}

func (r *ResultRepo) scanMany(ctx context.Context, query string, args ...interface{}) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Result, 0)
	for rows.Next() {
		var result domain.Result
		if err := rows.Scan(&result.ID, &result.UserID, &result.QuizID, &result.Score, &result.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
