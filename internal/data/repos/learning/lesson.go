package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, l *types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error)
	UpdateTitle(dbc dbctx.Context, id uuid.UUID, title string) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, l *types.Lesson) error {
	return dbc.DB(r.db).Create(l).Error
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var l types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&l).Error; err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) UpdateTitle(dbc dbctx.Context, id uuid.UUID, title string) error {
	return dbc.DB(r.db).Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "updated_at": time.Now().UTC()}).Error
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Lesson{})
	return res.RowsAffected > 0, res.Error
}

type LessonContentRepo interface {
	Create(dbc dbctx.Context, rows []*types.LessonContent) ([]*types.LessonContent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LessonContent, error)
	// Resolve returns, per lesson, its contents in link order. A link whose
	// content row is gone resolves to nil at its slot.
	Resolve(dbc dbctx.Context, lessonIDs []uuid.UUID) (map[uuid.UUID][]*types.LessonContent, error)
	UpdateBody(dbc dbctx.Context, id uuid.UUID, body string) (bool, error)
	Delete(dbc dbctx.Context, ids ...uuid.UUID) (int64, error)
}

type lessonContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonContentRepo(db *gorm.DB, baseLog *logger.Logger) LessonContentRepo {
	return &lessonContentRepo{db: db, log: baseLog.With("repo", "LessonContentRepo")}
}

func (r *lessonContentRepo) Create(dbc dbctx.Context, rows []*types.LessonContent) ([]*types.LessonContent, error) {
	if len(rows) == 0 {
		return []*types.LessonContent{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonContentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LessonContent, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.LessonContent
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

type resolvedContent struct {
	LessonID  uuid.UUID  `gorm:"column:lesson_id"`
	Position  int        `gorm:"column:position"`
	ContentID *uuid.UUID `gorm:"column:content_id"`
	Body      *string    `gorm:"column:body"`
	CreatedAt *time.Time `gorm:"column:created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at"`
}

func (r *lessonContentRepo) Resolve(dbc dbctx.Context, lessonIDs []uuid.UUID) (map[uuid.UUID][]*types.LessonContent, error) {
	out := make(map[uuid.UUID][]*types.LessonContent, len(lessonIDs))
	for _, id := range lessonIDs {
		out[id] = []*types.LessonContent{}
	}
	if len(lessonIDs) == 0 {
		return out, nil
	}
	var rows []resolvedContent
	if err := dbc.DB(r.db).
		Table("lesson_content_link AS l").
		Select("l.lesson_id, l.position, c.id AS content_id, c.body, c.created_at, c.updated_at").
		Joins("LEFT JOIN lesson_content AS c ON c.id = l.content_id").
		Where("l.lesson_id IN ?", lessonIDs).
		Order("l.lesson_id ASC, l.position ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		var c *types.LessonContent
		if row.ContentID != nil && *row.ContentID != uuid.Nil {
			c = &types.LessonContent{ID: *row.ContentID}
			if row.Body != nil {
				c.Body = *row.Body
			}
			if row.CreatedAt != nil {
				c.CreatedAt = *row.CreatedAt
			}
			if row.UpdatedAt != nil {
				c.UpdatedAt = *row.UpdatedAt
			}
		}
		out[row.LessonID] = append(out[row.LessonID], c)
	}
	return out, nil
}

func (r *lessonContentRepo) UpdateBody(dbc dbctx.Context, id uuid.UUID, body string) (bool, error) {
	res := dbc.DB(r.db).Model(&types.LessonContent{}).
		Where("id = ?", id).
		Updates(map[string]any{"body": body, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *lessonContentRepo) Delete(dbc dbctx.Context, ids ...uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.LessonContent{})
	return res.RowsAffected, res.Error
}
