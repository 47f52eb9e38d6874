package memory

import (
	"context"
	"sort"

	"quiz-management-service/internal/domain"
)

// UpsertAnswers records the whole batch under one lock: insert when the
// (user, quiz, question) key is absent, overwrite option and timestamp when
// it is present.
func (s *Store) UpsertAnswers(_ context.Context, answers []*domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, answer := range answers {
		answer.AnsweredAt = now
		key := answerKey{answer.UserID, answer.QuizID, answer.QuestionID}
		if stored, ok := s.answers[key]; ok {
			stored.OptionID = answer.OptionID
			stored.AnsweredAt = now
			continue
		}
		stored := *answer
		s.answers[key] = &stored
	}
	return nil
}

func (s *Store) ListAnswers(_ context.Context) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]domain.Answer, 0, len(s.answers))
	for _, answer := range s.answers {
		answers = append(answers, *answer)
	}
	sort.Slice(answers, func(i, j int) bool {
		if !answers[i].AnsweredAt.Equal(answers[j].AnsweredAt) {
			return answers[i].AnsweredAt.After(answers[j].AnsweredAt)
		}
		return answers[i].QuestionID < answers[j].QuestionID
	})
	return answers, nil
}

func (s *Store) ListAnswersByQuiz(_ context.Context, userID, quizID int64) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]domain.Answer, 0, 8)
	for _, answer := range s.answers {
		if answer.UserID == userID && answer.QuizID == quizID {
			answers = append(answers, *answer)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionID < answers[j].QuestionID })
	return answers, nil
}

func (s *Store) GetAnswer(_ context.Context, userID, quizID, questionID int64) (*domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answer, ok := s.answers[answerKey{userID, quizID, questionID}]
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	out := *answer
	return &out, nil
}

func (s *Store) UpdateAnswer(_ context.Context, userID, quizID, questionID, optionID int64) (*domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer, ok := s.answers[answerKey{userID, quizID, questionID}]
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	answer.OptionID = optionID
	answer.AnsweredAt = s.now()
	out := *answer
	return &out, nil
}

func (s *Store) DeleteAnswersForQuiz(_ context.Context, userID, quizID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.answers {
		if key.userID == userID && key.quizID == quizID {
			delete(s.answers, key)
			deleted++
		}
	}
	return deleted, nil
}
