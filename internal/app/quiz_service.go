package app

import (
	"context"
	"errors"
	"fmt"

	"quiz-management-service/internal/domain"
)

// maxTokenAttempts bounds insert retries when two creators race for the same
// token. The pre-check keeps collisions rare; hitting the cap means the
// keyspace is effectively exhausted.
const maxTokenAttempts = 10

// QuizRepository persists quizzes. Create must return domain.ErrTokenTaken
// when the token uniqueness constraint rejects the row.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error
	GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error
	DeleteQuiz(ctx context.Context, id int64) error
	GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error)
	TokenExists(ctx context.Context, token string) (bool, error)
}

// TokenResolver serves quiz-by-token lookups, typically through a TTL cache.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.Quiz, error)
	Invalidate(ctx context.Context, token string)
}

// QuizService owns the quiz table: creation with token assignment, CRUD, and
// token-based discovery for participants.
type QuizService struct {
	quizzes  QuizRepository
	tokens   *TokenGenerator
	resolver TokenResolver
}

func NewQuizService(quizzes QuizRepository, tokens *TokenGenerator, resolver TokenResolver) *QuizService {
	return &QuizService{quizzes: quizzes, tokens: tokens, resolver: resolver}
}

// CreateQuiz assigns a fresh access token and inserts the quiz. A duplicate
// token at insert time means another creator won the race for it; the token
// is regenerated and the insert retried instead of surfacing the conflict.
func (s *QuizService) CreateQuiz(ctx context.Context, adminID int64, name, description string, totalMark int, isActive bool) (*domain.Quiz, error) {
	if adminID == 0 || name == "" || totalMark == 0 {
		return nil, fmt.Errorf("%w: admin id, quiz name, and total mark are required", domain.ErrValidation)
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := s.tokens.GenerateUnique(ctx)
		if err != nil {
			return nil, err
		}
		quiz := &domain.Quiz{
			AdminID:     adminID,
			Name:        name,
			Description: description,
			TotalMark:   totalMark,
			Token:       token,
			IsActive:    isActive,
		}
		err = s.quizzes.CreateQuiz(ctx, quiz)
		if err == nil {
			return quiz, nil
		}
		if errors.Is(err, domain.ErrTokenTaken) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("no free quiz token after %d attempts", maxTokenAttempts)
}

func (s *QuizService) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, id)
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

// UpdateQuiz rewrites name, description, total mark, and the active flag.
// The token is immutable after creation.
func (s *QuizService) UpdateQuiz(ctx context.Context, id int64, name, description string, totalMark int, isActive bool) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	quiz.Name = name
	quiz.Description = description
	quiz.TotalMark = totalMark
	quiz.IsActive = isActive
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, quiz.Token)
	return quiz, nil
}

// DeleteQuiz removes the quiz; questions and their options go with it via
// the store's cascade rule.
func (s *QuizService) DeleteQuiz(ctx context.Context, id int64) error {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.resolver.Invalidate(ctx, quiz.Token)
	return nil
}

// GetQuizByToken resolves an access token to its quiz. Only active quizzes
// are discoverable this way.
func (s *QuizService) GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	return s.resolver.ResolveToken(ctx, token)
}
