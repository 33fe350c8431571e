package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LessonContent is one markdown section of a lesson.
type LessonContent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null;column:body" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (LessonContent) TableName() string { return "lesson_content" }

func (c *LessonContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LessonContentLink orders contents within a lesson. A link may outlive its
// content row; readers render that slot as null.
type LessonContentLink struct {
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey;column:lesson_id"`
	ContentID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:content_id"`
	Position  int       `gorm:"not null;default:0;column:position"`
}

func (LessonContentLink) TableName() string { return "lesson_content_link" }

type LessonExercise struct {
	LessonID   uuid.UUID `gorm:"type:uuid;primaryKey;column:lesson_id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:exercise_id"`
	Position   int       `gorm:"not null;default:0;column:position"`
}

func (LessonExercise) TableName() string { return "lesson_exercise" }
