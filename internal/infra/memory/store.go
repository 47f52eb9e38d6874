package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-management-service/internal/domain"
)

// Store is a map-backed implementation of every repository interface in
// internal/app. It backs the server when postgres is not configured and
// keeps unit tests hermetic. All mutations take the single store lock, which
// stands in for the relational store's transaction boundary.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	adminSeq, userSeq, quizSeq, questionSeq, optionSeq, resultSeq int64

	admins    map[int64]*domain.Admin
	users     map[int64]*domain.User
	quizzes   map[int64]*domain.Quiz
	questions map[int64]*domain.Question
	options   map[int64]*domain.Option
	answers   map[answerKey]*domain.Answer
	results   map[int64]*domain.Result
}

type answerKey struct {
	userID, quizID, questionID int64
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:       now,
		admins:    make(map[int64]*domain.Admin),
		users:     make(map[int64]*domain.User),
		quizzes:   make(map[int64]*domain.Quiz),
		questions: make(map[int64]*domain.Question),
		options:   make(map[int64]*domain.Option),
		answers:   make(map[answerKey]*domain.Answer),
		results:   make(map[int64]*domain.Result),
	}
}

func (s *Store) CreateAdmin(_ context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adminSeq++
	admin.ID = s.adminSeq
	admin.CreatedAt = s.now()
	admin.UpdatedAt = admin.CreatedAt
	stored := *admin
	s.admins[admin.ID] = &stored
	return nil
}

func (s *Store) GetAdmin(_ context.Context, id int64) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	out := *admin
	return &out, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admins := make([]domain.Admin, 0, len(s.admins))
	for _, admin := range s.admins {
		admins = append(admins, *admin)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID > admins[j].ID })
	return admins, nil
}

func (s *Store) UpdateAdmin(_ context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.admins[admin.ID]
	if !ok {
		return domain.ErrAdminNotFound
	}
	stored.Name = admin.Name
	stored.Email = admin.Email
	stored.UpdatedAt = s.now()
	admin.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeleteAdmin(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[id]; !ok {
		return domain.ErrAdminNotFound
	}
	delete(s.admins, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSeq++
	user.ID = s.userSeq
	user.CreatedAt = s.now()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.RegNo = user.RegNo
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.quizzes {
		if existing.Token == quiz.Token {
			return domain.ErrTokenTaken
		}
	}

	s.quizSeq++
	quiz.ID = s.quizSeq
	quiz.CreatedAt = s.now()
	stored := *quiz
	s.quizzes[quiz.ID] = &stored
	return nil
}

func (s *Store) GetQuiz(_ context.Context, id int64) (*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	out := *quiz
	return &out, nil
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quizzes := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		quizzes = append(quizzes, *quiz)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID > quizzes[j].ID })
	return quizzes, nil
}

func (s *Store) UpdateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	stored.Name = quiz.Name
	stored.Description = quiz.Description
	stored.TotalMark = quiz.TotalMark
	stored.IsActive = quiz.IsActive
	return nil
}

// Delete removes the quiz and cascades to its questions and, transitively,
// their options. Answers and results reference the quiz by identity only
// and stay behind, matching the relational schema.
func (s *Store) DeleteQuiz(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	for qid, question := range s.questions {
		if question.QuizID != id {
			continue
		}
		delete(s.questions, qid)
		for oid, option := range s.options {
			if option.QuestionID == qid {
				delete(s.options, oid)
			}
		}
	}
	return nil
}

func (s *Store) GetQuizByToken(_ context.Context, token string) (*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, quiz := range s.quizzes {
		if quiz.Token == token && quiz.IsActive {
			out := *quiz
			return &out, nil
		}
	}
	return nil, domain.ErrQuizNotFound
}

func (s *Store) TokenExists(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, quiz := range s.quizzes {
		if quiz.Token == token {
			return true, nil
		}
	}
	return false, nil
}
