package app

import (
	"context"
	"fmt"

	"quiz-management-service/internal/domain"
)

// QuestionRepository persists the question/option tree. Every multi-row
// mutation runs in a single transaction: either the whole tree change lands
// or none of it does.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*domain.Question) error
	GetWithOptions(ctx context.Context, id int64) (*domain.Question, error)
	ListWithOptions(ctx context.Context, quizID int64) ([]domain.Question, error)
	UpdateWithOptions(ctx context.Context, question *domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// QuestionService is the quiz-authoring engine: it validates batches up
// front and hands complete trees to the repository.
type QuestionService struct {
	questions QuestionRepository
}

func NewQuestionService(questions QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

// CreateQuestionsWithOptions inserts every question of the batch together
// with its options, in input order, as one atomic unit. Any item missing
// text, an option list, or an option text rejects the whole batch before a
// single row is written.
func (s *QuestionService) CreateQuestionsWithOptions(ctx context.Context, quizID int64, batch []domain.QuestionInput) ([]domain.Question, error) {
	if quizID == 0 || len(batch) == 0 {
		return nil, fmt.Errorf("%w: quiz id and a non-empty questions array are required", domain.ErrValidation)
	}

	questions := make([]*domain.Question, 0, len(batch))
	for i, item := range batch {
		if item.Text == "" || len(item.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d must have question_text and a non-empty options array", domain.ErrValidation, i+1)
		}
		question := &domain.Question{
			QuizID:  quizID,
			Text:    item.Text,
			Points:  effectivePoints(item.Points),
			Options: make([]domain.Option, 0, len(item.Options)),
		}
		for _, opt := range item.Options {
			if opt.Text == "" {
				return nil, fmt.Errorf("%w: every option of question %d must have option_text", domain.ErrValidation, i+1)
			}
			question.Options = append(question.Options, domain.Option{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		questions = append(questions, question)
	}

	if err := s.questions.CreateBatch(ctx, questions); err != nil {
		return nil, err
	}

	created := make([]domain.Question, len(questions))
	for i, q := range questions {
		created[i] = *q
	}
	return created, nil
}

// GetQuestionWithOptions returns one question with its options ordered by
// creation.
func (s *QuestionService) GetQuestionWithOptions(ctx context.Context, id int64) (*domain.Question, error) {
	return s.questions.GetWithOptions(ctx, id)
}

// ListQuestionsWithOptions returns question trees, newest question first.
// A zero quizID lists across all quizzes.
func (s *QuestionService) ListQuestionsWithOptions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	return s.questions.ListWithOptions(ctx, quizID)
}

// UpdateQuestionWithOptions rewrites the question's text and points and
// replaces its entire option set with the provided one. An empty option list
// is valid and leaves the question without options. If the question does not
// exist nothing changes, including the option table.
func (s *QuestionService) UpdateQuestionWithOptions(ctx context.Context, id int64, text string, points int, options []domain.OptionInput) (*domain.Question, error) {
	if id == 0 || text == "" {
		return nil, fmt.Errorf("%w: question id and question_text are required", domain.ErrValidation)
	}

	question := &domain.Question{
		ID:      id,
		Text:    text,
		Points:  effectivePoints(points),
		Options: make([]domain.Option, 0, len(options)),
	}
	for _, opt := range options {
		if opt.Text == "" {
			return nil, fmt.Errorf("%w: every option must have option_text", domain.ErrValidation)
		}
		question.Options = append(question.Options, domain.Option{
			QuestionID: id,
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
		})
	}

	if err := s.questions.UpdateWithOptions(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion deletes the question row; its options disappear through the
// cascade constraint, not a second application step.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.questions.DeleteQuestion(ctx, id)
}

func effectivePoints(points int) int {
	if points <= 0 {
		return 1
	}
	return points
}
