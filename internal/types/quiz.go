package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is immutable once created; its questions carry an explicit
// ordinal so display and grading order survive any storage engine.
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Topic     string         `gorm:"column:topic;not null" json:"topic"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

// QuizQuestion stores the question payload verbatim as JSONB:
// {"text": ..., "options": [...], "correct_answer_index": N}.
type QuizQuestion struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz      *Quiz          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Index     int            `gorm:"column:index;not null" json:"index"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb;not null" json:"data"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

// QuizAttempt records the current graded result for a (user, quiz)
// pair. No unique constraint on the pair: attempt storage can run in
// upsert (last write wins) or append-only mode, chosen at startup.
type QuizAttempt struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuizID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz            *Quiz          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Score           int            `gorm:"column:score;not null;default:0" json:"score"`
	TotalQuestions  int            `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	FeedbackMessage string         `gorm:"column:feedback_message;type:text" json:"feedback_message"`
	AttemptedAt     time.Time      `gorm:"column:attempted_at;not null;default:now()" json:"attempted_at"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }
