package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserCourseProgress is a user's completion record for one course.
type UserCourseProgress struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_progress,priority:1;column:user_id" json:"-"`
	CourseID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_progress,priority:2;column:course_id" json:"courseId"`
	CompletionPercentage float64   `gorm:"not null;default:0;column:completion_percentage" json:"completionPercentage"`
	CreatedAt            time.Time `gorm:"not null" json:"-"`
	UpdatedAt            time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserCourseProgress) TableName() string { return "user_course_progress" }

func (p *UserCourseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserCompletedLesson is one member of a user's completed-lesson set for a course.
type UserCompletedLesson struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey;column:lesson_id"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserCompletedLesson) TableName() string { return "user_completed_lesson" }

// UserExerciseProgress counts a user's submissions for one exercise.
type UserExerciseProgress struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_exercise_progress,priority:1;column:user_id" json:"-"`
	ExerciseID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_exercise_progress,priority:2;column:exercise_id" json:"exerciseId"`
	CompletionCount int64     `gorm:"not null;default:0;column:completion_count" json:"completionCount"`
	CreatedAt       time.Time `gorm:"not null" json:"-"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserExerciseProgress) TableName() string { return "user_exercise_progress" }

func (p *UserExerciseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
