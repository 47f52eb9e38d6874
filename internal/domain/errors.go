package domain

import "errors"

var (
	// ErrValidation wraps missing-field faults; the whole batch is rejected
	// before any row is written.
	ErrValidation = errors.New("invalid input")
	// ErrQuizNotFound indicates the referenced quiz does not exist (or is
	// inactive for token lookups).
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound indicates no answer row matched the given identity.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrResultNotFound indicates the referenced result does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrAdminNotFound indicates the referenced admin does not exist.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenTaken signals a duplicate quiz token at insert; quiz creation
	// regenerates and retries on it.
	ErrTokenTaken = errors.New("quiz token already in use")
	// ErrResultExists signals a duplicate (user, quiz) on manual result
	// creation. Manual creation is not an upsert.
	ErrResultExists = errors.New("result already exists for user and quiz")
)
