package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counters are the seven accumulator fields of a daily record.
type Counters struct {
	TotalTimeSpent     int64 `gorm:"not null;default:0;column:total_time_spent" json:"totalTimeSpent"`
	CoursesTimeSpent   int64 `gorm:"not null;default:0;column:courses_time_spent" json:"coursesTimeSpent"`
	LessonsTimeSpent   int64 `gorm:"not null;default:0;column:lessons_time_spent" json:"lessonsTimeSpent"`
	ExercisesTimeSpent int64 `gorm:"not null;default:0;column:exercises_time_spent" json:"exercisesTimeSpent"`
	CoursesCompleted   int64 `gorm:"not null;default:0;column:courses_completed" json:"coursesCompleted"`
	LessonsCompleted   int64 `gorm:"not null;default:0;column:lessons_completed" json:"lessonsCompleted"`
	ExercisesCompleted int64 `gorm:"not null;default:0;column:exercises_completed" json:"exercisesCompleted"`
}

// CounterColumns lists the accumulator columns in declaration order.
var CounterColumns = []string{
	"total_time_spent",
	"courses_time_spent",
	"lessons_time_spent",
	"exercises_time_spent",
	"courses_completed",
	"lessons_completed",
	"exercises_completed",
}

func (c *Counters) Add(o Counters) {
	c.TotalTimeSpent += o.TotalTimeSpent
	c.CoursesTimeSpent += o.CoursesTimeSpent
	c.LessonsTimeSpent += o.LessonsTimeSpent
	c.ExercisesTimeSpent += o.ExercisesTimeSpent
	c.CoursesCompleted += o.CoursesCompleted
	c.LessonsCompleted += o.LessonsCompleted
	c.ExercisesCompleted += o.ExercisesCompleted
}

type UserAnalytics struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_analytics_day,priority:1;index:idx_user_analytics_month,priority:1;column:user_id" json:"userId"`
	Date     time.Time `gorm:"not null;uniqueIndex:idx_user_analytics_day,priority:2;column:date" json:"date"`
	Month    int       `gorm:"not null;index:idx_user_analytics_month,priority:3;column:month" json:"month"`
	Year     int       `gorm:"not null;index:idx_user_analytics_month,priority:2;column:year" json:"year"`
	Counters `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserAnalytics) TableName() string { return "user_analytics" }

func (a *UserAnalytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TruncateDay maps t to midnight UTC of its calendar day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
