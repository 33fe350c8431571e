package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, c *types.Category) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Category, error)
	GetByTitle(dbc dbctx.Context, title string) (*types.Category, error)
	List(dbc dbctx.Context) ([]*types.Category, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, c *types.Category) error {
	return dbc.DB(r.db).Create(c).Error
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Category, error) {
	var c types.Category
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Category, error) {
	var out []*types.Category
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) GetByTitle(dbc dbctx.Context, title string) (*types.Category, error) {
	var c types.Category
	if err := dbc.DB(r.db).Where("title = ?", title).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) List(dbc dbctx.Context) ([]*types.Category, error) {
	var out []*types.Category
	if err := dbc.DB(r.db).Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.Category{}).Where("id = ?", id).Updates(updates).Error
}

type LanguageRepo interface {
	Create(dbc dbctx.Context, l *types.Language) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Language, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Language, error)
	GetByName(dbc dbctx.Context, name string) (*types.Language, error)
	List(dbc dbctx.Context) ([]*types.Language, error)
}

type languageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return &languageRepo{db: db, log: baseLog.With("repo", "LanguageRepo")}
}

func (r *languageRepo) Create(dbc dbctx.Context, l *types.Language) error {
	return dbc.DB(r.db).Create(l).Error
}

func (r *languageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Language, error) {
	var l types.Language
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&l).Error; err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

func (r *languageRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Language, error) {
	var out []*types.Language
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *languageRepo) GetByName(dbc dbctx.Context, name string) (*types.Language, error) {
	var l types.Language
	if err := dbc.DB(r.db).Where("name = ?", name).Limit(1).Find(&l).Error; err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

func (r *languageRepo) List(dbc dbctx.Context) ([]*types.Language, error) {
	var out []*types.Language
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
