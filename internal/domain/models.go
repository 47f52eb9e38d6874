package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Admin is a quiz author. PasswordHash is never serialized.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID           int64     `bun:"admin_id,pk,autoincrement" json:"admin_id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// User is a quiz participant, identified externally by a registration number.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"user_id,pk,autoincrement" json:"user_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	RegNo     string    `bun:"regno,notnull,unique" json:"regno"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Quiz is discoverable by participants through Token while IsActive is true.
type Quiz struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID          int64     `bun:"quiz_id,pk,autoincrement" json:"quiz_id"`
	AdminID     int64     `bun:"admin_id,notnull" json:"admin_id"`
	Name        string    `bun:"quiz_name,notnull" json:"quiz_name"`
	Description string    `bun:"description" json:"description"`
	TotalMark   int       `bun:"total_mark,notnull" json:"total_mark"`
	Token       string    `bun:"quiz_token,notnull,unique" json:"quiz_token"`
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Question belongs to a quiz; deleting it cascades to its options.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID        int64     `bun:"question_id,pk,autoincrement" json:"question_id"`
	QuizID    int64     `bun:"quiz_id,notnull" json:"quiz_id"`
	Text      string    `bun:"question_text,notnull" json:"question_text"`
	Points    int       `bun:"points,notnull" json:"points"` // defaults to 1 at validation time
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Options []Option `bun:"rel:has-many,join:question_id=question_id" json:"options"`
}

// Option is one choice for a question.
type Option struct {
	bun.BaseModel `bun:"table:options,alias:o"`

	ID         int64  `bun:"option_id,pk,autoincrement" json:"option_id"`
	QuestionID int64  `bun:"question_id,notnull" json:"question_id"`
	Text       string `bun:"option_text,notnull" json:"option_text"`
	IsCorrect  bool   `bun:"is_correct,notnull" json:"is_correct"`
}

// Answer records a participant's chosen option for one question of a quiz.
// At most one row exists per (user, quiz, question); resubmission overwrites.
type Answer struct {
	bun.BaseModel `bun:"table:user_answers,alias:ua"`

	UserID     int64     `bun:"user_id,pk" json:"user_id"`
	QuizID     int64     `bun:"quiz_id,pk" json:"quiz_id"`
	QuestionID int64     `bun:"question_id,pk" json:"question_id"`
	OptionID   int64     `bun:"option_id,notnull" json:"option_id"`
	AnsweredAt time.Time `bun:"answered_at,nullzero,notnull,default:current_timestamp" json:"answered_at"`
}

// Result holds a participant's score for a quiz, unique per (user, quiz).
type Result struct {
	bun.BaseModel `bun:"table:user_results,alias:ur"`

	ID          int64     `bun:"result_id,pk,autoincrement" json:"result_id"`
	UserID      int64     `bun:"user_id,notnull" json:"user_id"`
	QuizID      int64     `bun:"quiz_id,notnull" json:"quiz_id"`
	Score       int       `bun:"score,notnull" json:"score"`
	CompletedAt time.Time `bun:"completed_at,nullzero,notnull,default:current_timestamp" json:"completed_at"`
}

// QuestionInput is one item of an authoring batch.
type QuestionInput struct {
	Text    string        `json:"question_text"`
	Points  int           `json:"points"`
	Options []OptionInput `json:"options"`
}

// OptionInput is one option of an authoring batch item.
type OptionInput struct {
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
}

// AnswerInput is one (question, option) pair of a submission batch.
type AnswerInput struct {
	QuestionID int64 `json:"question_id"`
	OptionID   int64 `json:"option_id"`
}
