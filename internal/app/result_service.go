package app

import (
	"context"
	"fmt"
	"log"

	"quiz-management-service/internal/domain"
)

// ResultRepository persists scores. ComputeAndStore aggregates the
// participant's answers against option correctness and question points and
// upserts the (user, quiz) result row inside one transaction. Create is a
// plain insert that returns domain.ErrResultExists on a duplicate pair.
type ResultRepository interface {
	ComputeAndStore(ctx context.Context, userID, quizID int64) (*domain.Result, error)
	CreateResult(ctx context.Context, result *domain.Result) error
	GetResult(ctx context.Context, id int64) (*domain.Result, error)
	ListResults(ctx context.Context) ([]domain.Result, error)
	ListResultsByUser(ctx context.Context, userID int64) ([]domain.Result, error)
	ListResultsByQuiz(ctx context.Context, quizID int64) ([]domain.Result, error)
	GetUserQuizResult(ctx context.Context, userID, quizID int64) (*domain.Result, error)
	UpdateResultScore(ctx context.Context, id int64, score int) (*domain.Result, error)
	DeleteResult(ctx context.Context, id int64) error
}

// ResultService scores attempts and keeps quiz standings flowing to
// leaderboard subscribers.
type ResultService struct {
	results ResultRepository
	hub     *LeaderboardHub
}

func NewResultService(results ResultRepository, hub *LeaderboardHub) *ResultService {
	return &ResultService{results: results, hub: hub}
}

// ComputeAndStoreResult sums the points of every question whose chosen
// option is correct and upserts the (user, quiz) result. Zero answers score
// zero; recomputation overwrites score and completion time in place, so the
// call is idempotent and can run after every late correction.
func (s *ResultService) ComputeAndStoreResult(ctx context.Context, userID, quizID int64) (*domain.Result, error) {
	if userID == 0 || quizID == 0 {
		return nil, fmt.Errorf("%w: user id and quiz id are required", domain.ErrValidation)
	}
	result, err := s.results.ComputeAndStore(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, quizID)
	return result, nil
}

// CreateResultManually inserts a result row directly, bypassing computation.
// It is deliberately not an upsert: a second manual create for the same
// (user, quiz) pair is a caller error and leaves the prior score untouched.
func (s *ResultService) CreateResultManually(ctx context.Context, userID, quizID int64, score int) (*domain.Result, error) {
	if userID == 0 || quizID == 0 || score < 0 {
		return nil, fmt.Errorf("%w: user id, quiz id, and a non-negative score are required", domain.ErrValidation)
	}
	result := &domain.Result{UserID: userID, QuizID: quizID, Score: score}
	if err := s.results.CreateResult(ctx, result); err != nil {
		return nil, err
	}
	s.publish(ctx, quizID)
	return result, nil
}

func (s *ResultService) GetResult(ctx context.Context, id int64) (*domain.Result, error) {
	return s.results.GetResult(ctx, id)
}

func (s *ResultService) ListResults(ctx context.Context) ([]domain.Result, error) {
	return s.results.ListResults(ctx)
}

func (s *ResultService) GetResultsByUser(ctx context.Context, userID int64) ([]domain.Result, error) {
	return s.results.ListResultsByUser(ctx, userID)
}

// GetResultsByQuiz returns the quiz standings: score descending, earlier
// completion winning ties.
func (s *ResultService) GetResultsByQuiz(ctx context.Context, quizID int64) ([]domain.Result, error) {
	return s.results.ListResultsByQuiz(ctx, quizID)
}

func (s *ResultService) GetUserQuizResult(ctx context.Context, userID, quizID int64) (*domain.Result, error) {
	return s.results.GetUserQuizResult(ctx, userID, quizID)
}

// UpdateResultScore overwrites one result's score and refreshes its
// completion time.
func (s *ResultService) UpdateResultScore(ctx context.Context, id int64, score int) (*domain.Result, error) {
	if score < 0 {
		return nil, fmt.Errorf("%w: score must be non-negative", domain.ErrValidation)
	}
	result, err := s.results.UpdateResultScore(ctx, id, score)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, result.QuizID)
	return result, nil
}

func (s *ResultService) DeleteResult(ctx context.Context, id int64) error {
	result, err := s.results.GetResult(ctx, id)
	if err != nil {
		return err
	}
	if err := s.results.DeleteResult(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, result.QuizID)
	return nil
}

// publish pushes fresh standings to leaderboard subscribers. Failures here
// never fail the mutation that triggered them.
func (s *ResultService) publish(ctx context.Context, quizID int64) {
	if s.hub == nil {
		return
	}
	standings, err := s.results.ListResultsByQuiz(ctx, quizID)
	if err != nil {
		log.Printf("leaderboard refresh for quiz %d failed: %v", quizID, err)
		return
	}
	s.hub.Publish(quizID, standings)
}
