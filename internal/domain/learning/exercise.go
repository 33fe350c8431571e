package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Exercise struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string                      `gorm:"not null;column:title" json:"title"`
	Question      string                      `gorm:"type:text;not null;column:question" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"column:options" json:"options"`
	CorrectAnswer int                         `gorm:"not null;column:correct_answer" json:"correctAnswer"`
	Explanation   string                      `gorm:"type:text;column:explanation" json:"explanation"`
	FromLessonID  *uuid.UUID                  `gorm:"type:uuid;index;column:from_lesson_id" json:"fromLesson,omitempty"`
	AnswerCount   int64                       `gorm:"not null;default:0;column:answer_count" json:"answerCount"`
	CreatedAt     time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Exercise) TableName() string { return "exercise" }

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Options == nil {
		e.Options = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ValidAnswerIndex reports whether i indexes into options.
func ValidAnswerIndex(i int, options []string) bool {
	return i >= 0 && i < len(options)
}

// UserResponse is one append-only answer submission.
type UserResponse struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_response_attempt,priority:1;column:user_id" json:"userId"`
	ExerciseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_response_attempt,priority:2;column:exercise_id" json:"exerciseId"`
	Attempt             int       `gorm:"not null;default:1;uniqueIndex:idx_user_response_attempt,priority:3;column:attempt" json:"attempt"`
	SelectedOptionIndex int       `gorm:"not null;column:selected_option_index" json:"selectedOptionIndex"`
	IsCorrect           bool      `gorm:"not null;column:is_correct" json:"isCorrect"`
	AnswerTimeMs        int64     `gorm:"not null;default:0;column:answer_time_ms" json:"answerTime"`
	CreatedAt           time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserResponse) TableName() string { return "user_response" }

func (r *UserResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
