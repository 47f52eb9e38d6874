package memory

import (
	"context"
	"sort"

	"quiz-management-service/internal/domain"
)

// CreateBatch inserts every question with its options under one lock, in
// input order, mirroring the relational all-or-nothing batch.
func (s *Store) CreateBatch(_ context.Context, questions []*domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[questions[0].QuizID]; !ok {
		return domain.ErrQuizNotFound
	}

	now := s.now()
	for _, question := range questions {
		s.questionSeq++
		question.ID = s.questionSeq
		question.CreatedAt = now

		stored := *question
		stored.Options = nil
		s.questions[question.ID] = &stored

		for i := range question.Options {
			s.optionSeq++
			question.Options[i].ID = s.optionSeq
			question.Options[i].QuestionID = question.ID
			opt := question.Options[i]
			s.options[opt.ID] = &opt
		}
	}
	return nil
}

func (s *Store) GetWithOptions(_ context.Context, id int64) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	question, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	out := *question
	out.Options = s.optionsForLocked(id)
	return &out, nil
}

// ListWithOptions returns question trees, newest question first. A zero
// quizID lists across all quizzes.
func (s *Store) ListWithOptions(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]domain.Question, 0, len(s.questions))
	for _, question := range s.questions {
		if quizID != 0 && question.QuizID != quizID {
			continue
		}
		out := *question
		out.Options = s.optionsForLocked(question.ID)
		questions = append(questions, out)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID > questions[j].ID })
	return questions, nil
}

// UpdateWithOptions rewrites text/points and replaces the full option set
// under one lock. A missing question leaves the option table untouched.
func (s *Store) UpdateWithOptions(_ context.Context, question *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.questions[question.ID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	stored.Text = question.Text
	stored.Points = question.Points
	question.QuizID = stored.QuizID
	question.CreatedAt = stored.CreatedAt

	for oid, option := range s.options {
		if option.QuestionID == question.ID {
			delete(s.options, oid)
		}
	}
	for i := range question.Options {
		s.optionSeq++
		question.Options[i].ID = s.optionSeq
		question.Options[i].QuestionID = question.ID
		opt := question.Options[i]
		s.options[opt.ID] = &opt
	}
	return nil
}

// DeleteQuestion removes the question and cascades to its options.
func (s *Store) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for oid, option := range s.options {
		if option.QuestionID == id {
			delete(s.options, oid)
		}
	}
	return nil
}

func (s *Store) optionsForLocked(questionID int64) []domain.Option {
	options := make([]domain.Option, 0, 4)
	for _, option := range s.options {
		if option.QuestionID == questionID {
			options = append(options, *option)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	return options
}
