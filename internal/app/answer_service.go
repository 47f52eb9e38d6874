package app

import (
	"context"
	"fmt"

	"quiz-management-service/internal/domain"
)

// AnswerRepository persists participant answers. UpsertBatch runs in one
// transaction keyed by (user, quiz, question): insert when absent, overwrite
// option and timestamp when present.
type AnswerRepository interface {
	UpsertAnswers(ctx context.Context, answers []*domain.Answer) error
	ListAnswers(ctx context.Context) ([]domain.Answer, error)
	ListAnswersByQuiz(ctx context.Context, userID, quizID int64) ([]domain.Answer, error)
	GetAnswer(ctx context.Context, userID, quizID, questionID int64) (*domain.Answer, error)
	UpdateAnswer(ctx context.Context, userID, quizID, questionID, optionID int64) (*domain.Answer, error)
	DeleteAnswersForQuiz(ctx context.Context, userID, quizID int64) (int64, error)
}

// AnswerService records participant choices. The composite-key upsert lets a
// participant resubmit or correct answers without checking what exists.
type AnswerService struct {
	answers AnswerRepository
}

func NewAnswerService(answers AnswerRepository) *AnswerService {
	return &AnswerService{answers: answers}
}

// SubmitAnswers upserts every (question, option) pair of the batch in one
// transaction. A pair missing either id rejects the whole batch.
func (s *AnswerService) SubmitAnswers(ctx context.Context, userID, quizID int64, batch []domain.AnswerInput) ([]domain.Answer, error) {
	if userID == 0 || quizID == 0 || len(batch) == 0 {
		return nil, fmt.Errorf("%w: user id, quiz id, and a non-empty answers array are required", domain.ErrValidation)
	}

	answers := make([]*domain.Answer, 0, len(batch))
	for i, item := range batch {
		if item.QuestionID == 0 || item.OptionID == 0 {
			return nil, fmt.Errorf("%w: answer %d must have question_id and option_id", domain.ErrValidation, i+1)
		}
		answers = append(answers, &domain.Answer{
			UserID:     userID,
			QuizID:     quizID,
			QuestionID: item.QuestionID,
			OptionID:   item.OptionID,
		})
	}

	if err := s.answers.UpsertAnswers(ctx, answers); err != nil {
		return nil, err
	}

	submitted := make([]domain.Answer, len(answers))
	for i, a := range answers {
		submitted[i] = *a
	}
	return submitted, nil
}

func (s *AnswerService) ListAnswers(ctx context.Context) ([]domain.Answer, error) {
	return s.answers.ListAnswers(ctx)
}

// GetAnswersByQuiz returns the participant's answers for one quiz, ordered
// by question id.
func (s *AnswerService) GetAnswersByQuiz(ctx context.Context, userID, quizID int64) ([]domain.Answer, error) {
	return s.answers.ListAnswersByQuiz(ctx, userID, quizID)
}

func (s *AnswerService) GetAnswer(ctx context.Context, userID, quizID, questionID int64) (*domain.Answer, error) {
	return s.answers.GetAnswer(ctx, userID, quizID, questionID)
}

// UpdateAnswer overwrites one existing answer's option in place.
func (s *AnswerService) UpdateAnswer(ctx context.Context, userID, quizID, questionID, optionID int64) (*domain.Answer, error) {
	if optionID == 0 {
		return nil, fmt.Errorf("%w: option id is required", domain.ErrValidation)
	}
	return s.answers.UpdateAnswer(ctx, userID, quizID, questionID, optionID)
}

// DeleteAnswersForQuiz removes every answer of the (user, quiz) attempt so
// the participant can restart. Nothing to delete is a not-found.
func (s *AnswerService) DeleteAnswersForQuiz(ctx context.Context, userID, quizID int64) error {
	deleted, err := s.answers.DeleteAnswersForQuiz(ctx, userID, quizID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}
