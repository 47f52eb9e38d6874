package memory

import (
	"context"
	"sort"

	"quiz-management-service/internal/domain"
)

// ComputeAndStore sums the points of every answered question whose chosen
// option is correct and upserts the (user, quiz) result, all under one lock.
// No answers means a stored score of zero, not an error.
func (s *Store) ComputeAndStore(_ context.Context, userID, quizID int64) (*domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := 0
	for key, answer := range s.answers {
		if key.userID != userID || key.quizID != quizID {
			continue
		}
		option, ok := s.options[answer.OptionID]
		if !ok || !option.IsCorrect {
			continue
		}
		if question, ok := s.questions[answer.QuestionID]; ok {
			score += question.Points
		}
	}

	now := s.now()
	for _, result := range s.results {
		if result.UserID == userID && result.QuizID == quizID {
			result.Score = score
			result.CompletedAt = now
			out := *result
			return &out, nil
		}
	}

	s.resultSeq++
	result := &domain.Result{
		ID:          s.resultSeq,
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: now,
	}
	s.results[result.ID] = result
	out := *result
	return &out, nil
}

// CreateResult is a plain insert; a second row for the same (user, quiz)
// pair is rejected the way the relational uniqueness constraint would.
func (s *Store) CreateResult(_ context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.results {
		if existing.UserID == result.UserID && existing.QuizID == result.QuizID {
			return domain.ErrResultExists
		}
	}

	s.resultSeq++
	result.ID = s.resultSeq
	result.CompletedAt = s.now()
	stored := *result
	s.results[result.ID] = &stored
	return nil
}

func (s *Store) GetResult(_ context.Context, id int64) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	out := *result
	return &out, nil
}

func (s *Store) ListResults(_ context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Result, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.After(results[j].CompletedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

func (s *Store) ListResultsByUser(_ context.Context, userID int64) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Result, 0, 4)
	for _, result := range s.results {
		if result.UserID == userID {
			results = append(results, *result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.After(results[j].CompletedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

// ListResultsByQuiz orders standings by score descending, with earlier
// completion winning ties.
func (s *Store) ListResultsByQuiz(_ context.Context, quizID int64) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Result, 0, 8)
	for _, result := range s.results {
		if result.QuizID == quizID {
			results = append(results, *result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.Before(results[j].CompletedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (s *Store) GetUserQuizResult(_ context.Context, userID, quizID int64) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, result := range s.results {
		if result.UserID == userID && result.QuizID == quizID {
			out := *result
			return &out, nil
		}
	}
	return nil, domain.ErrResultNotFound
}

func (s *Store) UpdateResultScore(_ context.Context, id int64, score int) (*domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	result.Score = score
	result.CompletedAt = s.now()
	out := *result
	return &out, nil
}

func (s *Store) DeleteResult(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return domain.ErrResultNotFound
	}
	delete(s.results, id)
	return nil
}
