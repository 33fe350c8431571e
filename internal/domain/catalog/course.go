package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/domain/media"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Course struct {
	ID              uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string                        `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Description     string                        `gorm:"not null;column:description" json:"description"`
	AuthorID        uuid.UUID                     `gorm:"type:uuid;index;not null;column:author_id" json:"author"`
	Price           float64                       `gorm:"not null;default:0;column:price" json:"price"`
	Poster          media.Media                   `gorm:"embedded;embeddedPrefix:poster_" json:"poster"`
	Level           Level                         `gorm:"not null;column:level" json:"level"`
	LanguageID      *uuid.UUID                    `gorm:"type:uuid;index;column:language_id" json:"language"`
	Duration        string                        `gorm:"column:duration" json:"duration,omitempty"`
	EnrollmentCount int64                         `gorm:"not null;default:0;column:enrollment_count" json:"enrollmentCount"`
	Likes           int64                         `gorm:"not null;default:0;column:likes" json:"likes"`
	Rating          float64                       `gorm:"not null;default:0;column:rating" json:"rating"`
	Reviews         int64                         `gorm:"not null;default:0;column:reviews" json:"reviews"`
	PublishDate     *time.Time                    `gorm:"column:publish_date" json:"publishDate,omitempty"`
	Prerequisites   datatypes.JSONSlice[string]   `gorm:"column:prerequisites" json:"prerequisites"`
	Resources       datatypes.JSONSlice[Resource] `gorm:"column:resources" json:"resources"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Prerequisites == nil {
		c.Prerequisites = datatypes.JSONSlice[string]{}
	}
	if c.Resources == nil {
		c.Resources = datatypes.JSONSlice[Resource]{}
	}
	return nil
}

// CourseTag is a free-text tag matched against category tags by recommendations.
type CourseTag struct {
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"courseId"`
	Tag      string    `gorm:"primaryKey;index;column:tag" json:"tag"`
}

func (CourseTag) TableName() string { return "course_tag" }

// CourseLesson orders lessons within a course.
type CourseLesson struct {
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id"`
	LessonID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:lesson_id"`
	Position int       `gorm:"not null;default:0;column:position"`
}

func (CourseLesson) TableName() string { return "course_lesson" }

type CourseExercise struct {
	CourseID   uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:exercise_id"`
	Position   int       `gorm:"not null;default:0;column:position"`
}

func (CourseExercise) TableName() string { return "course_exercise" }

type CourseCategory struct {
	CourseID   uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:category_id"`
	Position   int       `gorm:"not null;default:0;column:position"`
}

func (CourseCategory) TableName() string { return "course_category" }

type CourseRecommendation struct {
	CourseID      uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id"`
	RecommendedID uuid.UUID `gorm:"type:uuid;primaryKey;column:recommended_id"`
	Position      int       `gorm:"not null;default:0;column:position"`
}

func (CourseRecommendation) TableName() string { return "course_recommendation" }
