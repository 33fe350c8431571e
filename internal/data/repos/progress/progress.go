package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type CourseProgressRepo interface {
	Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.UserCourseProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserCourseProgress, error)
	Upsert(dbc dbctx.Context, userID, courseID uuid.UUID, percentage float64) (*types.UserCourseProgress, error)
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return &courseProgressRepo{db: db, log: baseLog.With("repo", "CourseProgressRepo")}
}

func (r *courseProgressRepo) Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.UserCourseProgress, error) {
	var row types.UserCourseProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *courseProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserCourseProgress, error) {
	var out []*types.UserCourseProgress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseProgressRepo) Upsert(dbc dbctx.Context, userID, courseID uuid.UUID, percentage float64) (*types.UserCourseProgress, error) {
	now := time.Now().UTC()
	row := &types.UserCourseProgress{
		UserID:               userID,
		CourseID:             courseID,
		CompletionPercentage: percentage,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	t := dbc.DB(r.db)
	if err := t.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completion_percentage", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, courseID)
}

type CompletedLessonRepo interface {
	// Add set-adds lessonID and reports whether it was new.
	Add(dbc dbctx.Context, userID, courseID, lessonID uuid.UUID) (bool, error)
	LessonIDs(dbc dbctx.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
	ByUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	// CountInCourse counts completed lessons the course still lists.
	CountInCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
}

type completedLessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletedLessonRepo(db *gorm.DB, baseLog *logger.Logger) CompletedLessonRepo {
	return &completedLessonRepo{db: db, log: baseLog.With("repo", "CompletedLessonRepo")}
}

func (r *completedLessonRepo) Add(dbc dbctx.Context, userID, courseID, lessonID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.UserCompletedLesson{
			UserID:    userID,
			CourseID:  courseID,
			LessonID:  lessonID,
			CreatedAt: time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *completedLessonRepo) LessonIDs(dbc dbctx.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).Model(&types.UserCompletedLesson{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at ASC, lesson_id ASC").
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *completedLessonRepo) ByUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	var rows []types.UserCompletedLesson
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC, lesson_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := map[uuid.UUID][]uuid.UUID{}
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.LessonID)
	}
	return out, nil
}

func (r *completedLessonRepo) CountInCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Table("user_completed_lesson AS ucl").
		Joins("JOIN course_lesson AS cl ON cl.course_id = ucl.course_id AND cl.lesson_id = ucl.lesson_id").
		Where("ucl.user_id = ? AND ucl.course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

type ExerciseProgressRepo interface {
	// Increment bumps the completion counter in one statement, inserting it at 1.
	Increment(dbc dbctx.Context, userID, exerciseID uuid.UUID) error
	Get(dbc dbctx.Context, userID, exerciseID uuid.UUID) (*types.UserExerciseProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserExerciseProgress, error)
}

type exerciseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseProgressRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseProgressRepo {
	return &exerciseProgressRepo{db: db, log: baseLog.With("repo", "ExerciseProgressRepo")}
}

func (r *exerciseProgressRepo) Increment(dbc dbctx.Context, userID, exerciseID uuid.UUID) error {
	now := time.Now().UTC()
	row := &types.UserExerciseProgress{
		UserID:          userID,
		ExerciseID:      exerciseID,
		CompletionCount: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"completion_count": gorm.Expr("user_exercise_progress.completion_count + 1"),
			"updated_at":       now,
		}),
	}).Create(row).Error
}

func (r *exerciseProgressRepo) Get(dbc dbctx.Context, userID, exerciseID uuid.UUID) (*types.UserExerciseProgress, error) {
	var row types.UserExerciseProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *exerciseProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserExerciseProgress, error) {
	var out []*types.UserExerciseProgress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
