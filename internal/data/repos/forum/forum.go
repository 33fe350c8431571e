package forum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type PostRepo interface {
	Create(dbc dbctx.Context, p *types.Post) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Post, error)
	// List pages posts newest first.
	List(dbc dbctx.Context, offset, limit int) ([]*types.Post, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) Create(dbc dbctx.Context, p *types.Post) error {
	return dbc.DB(r.db).Create(p).Error
}

func (r *postRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Post, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var p types.Post
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *postRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.Post, int64, error) {
	t := dbc.DB(r.db)
	var total int64
	if err := t.Model(&types.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Post
	if err := t.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *postRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.Post{}).Where("id = ?", id).Updates(updates).Error
}

func (r *postRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Post{})
	return res.RowsAffected > 0, res.Error
}

type CommentRepo interface {
	Create(dbc dbctx.Context, c *types.Comment) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Comment, error)
	// ListByPost returns comments newest first.
	ListByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	DeleteByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(dbc dbctx.Context, c *types.Comment) error {
	return dbc.DB(r.db).Create(c).Error
}

func (r *commentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Comment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Comment
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, nil
	}
	return &c, nil
}

func (r *commentRepo) ListByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error) {
	var out []*types.Comment
	if err := dbc.DB(r.db).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.Comment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *commentRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Comment{})
	return res.RowsAffected > 0, res.Error
}

// DeleteByPost removes every comment of postID and returns the removed rows
// so the caller can clean up their media.
func (r *commentRepo) DeleteByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error) {
	t := dbc.DB(r.db)
	var rows []*types.Comment
	if err := t.Where("post_id = ?", postID).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := t.Where("post_id = ?", postID).Delete(&types.Comment{}).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
