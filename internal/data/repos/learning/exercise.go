package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ExerciseRepo interface {
	Create(dbc dbctx.Context, e *types.Exercise) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Exercise, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Exercise, error)
	IDsFromLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	IncrementAnswerCount(dbc dbctx.Context, id uuid.UUID) error
	Delete(dbc dbctx.Context, ids ...uuid.UUID) (int64, error)
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return &exerciseRepo{db: db, log: baseLog.With("repo", "ExerciseRepo")}
}

func (r *exerciseRepo) Create(dbc dbctx.Context, e *types.Exercise) error {
	return dbc.DB(r.db).Create(e).Error
}

func (r *exerciseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Exercise, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var e types.Exercise
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&e).Error; err != nil {
		return nil, err
	}
	if e.ID == uuid.Nil {
		return nil, nil
	}
	return &e, nil
}

func (r *exerciseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Exercise, error) {
	var out []*types.Exercise
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exerciseRepo) IDsFromLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).Model(&types.Exercise{}).
		Where("from_lesson_id = ?", lessonID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *exerciseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.Exercise{}).Where("id = ?", id).Updates(updates).Error
}

// IncrementAnswerCount counts every attempt, correct or not.
func (r *exerciseRepo) IncrementAnswerCount(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Model(&types.Exercise{}).
		Where("id = ?", id).
		UpdateColumn("answer_count", gorm.Expr("answer_count + 1")).Error
}

func (r *exerciseRepo) Delete(dbc dbctx.Context, ids ...uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Exercise{})
	return res.RowsAffected, res.Error
}

type UserResponseRepo interface {
	MaxAttempt(dbc dbctx.Context, userID, exerciseID uuid.UUID) (int, error)
	Create(dbc dbctx.Context, row *types.UserResponse) error
	List(dbc dbctx.Context, userID, exerciseID uuid.UUID) ([]*types.UserResponse, error)
}

type userResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserResponseRepo(db *gorm.DB, baseLog *logger.Logger) UserResponseRepo {
	return &userResponseRepo{db: db, log: baseLog.With("repo", "UserResponseRepo")}
}

func (r *userResponseRepo) MaxAttempt(dbc dbctx.Context, userID, exerciseID uuid.UUID) (int, error) {
	var top struct {
		Max *int `gorm:"column:max_attempt"`
	}
	if err := dbc.DB(r.db).Model(&types.UserResponse{}).
		Select("MAX(attempt) AS max_attempt").
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Scan(&top).Error; err != nil {
		return 0, err
	}
	if top.Max == nil {
		return 0, nil
	}
	return *top.Max, nil
}

// Create appends a response. (user_id, exercise_id, attempt) is unique, so a
// concurrent submit with the same attempt fails with gorm.ErrDuplicatedKey.
func (r *userResponseRepo) Create(dbc dbctx.Context, row *types.UserResponse) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *userResponseRepo) List(dbc dbctx.Context, userID, exerciseID uuid.UUID) ([]*types.UserResponse, error) {
	var out []*types.UserResponse
	if err := dbc.DB(r.db).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Order("attempt ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
