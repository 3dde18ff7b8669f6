package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note statuses. A note starts as "uploaded"; the summarization step
// moves it to "summarized" or "failed".
const (
	NoteStatusUploaded   = "uploaded"
	NoteStatusSummarized = "summarized"
	NoteStatusFailed     = "failed"
)

// Note is one uploaded PDF of study notes plus its generated summary.
type Note struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	OriginalName string         `gorm:"column:original_name;not null" json:"original_name"`
	MimeType     string         `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes    int64          `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey   string         `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL      string         `gorm:"column:file_url" json:"file_url"`
	Summary      string         `gorm:"column:summary;type:text" json:"summary"`
	Status       string         `gorm:"column:status;not null;default:'uploaded'" json:"status"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Note) TableName() string { return "note" }
