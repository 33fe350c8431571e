package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error)
	GetByName(dbc dbctx.Context, name string) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	NameOrEmailTaken(dbc dbctx.Context, name, email string) (nameTaken bool, emailTaken bool, err error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	TouchLastActive(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	return dbc.DB(r.db).Create(u).Error
}

func (r *userRepo) first(t *gorm.DB) (*types.User, error) {
	var u types.User
	if err := t.Limit(1).Find(&u).Error; err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) GetByName(dbc dbctx.Context, name string) (*types.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("name = ?", name))
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("email = ?", email))
}

func (r *userRepo) NameOrEmailTaken(dbc dbctx.Context, name, email string) (bool, bool, error) {
	var rows []types.User
	if err := dbc.DB(r.db).
		Select("id", "name", "email").
		Where("name = ? OR email = ?", name, email).
		Find(&rows).Error; err != nil {
		return false, false, err
	}
	var nameTaken, emailTaken bool
	for _, u := range rows {
		if u.Name == name {
			nameTaken = true
		}
		if u.Email == email {
			emailTaken = true
		}
	}
	return nameTaken, emailTaken, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).Model(&types.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *userRepo) TouchLastActive(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return r.UpdateFields(dbc, id, map[string]any{"last_active": at.UTC()})
}

type FollowRepo interface {
	Follow(dbc dbctx.Context, followerID, followeeID uuid.UUID) (bool, error)
	Unfollow(dbc dbctx.Context, followerID, followeeID uuid.UUID) (bool, error)
	Counts(dbc dbctx.Context, userID uuid.UUID) (followers int64, followings int64, err error)
}

type followRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
	return &followRepo{db: db, log: baseLog.With("repo", "FollowRepo")}
}

// Follow set-adds the edge and reports whether it was new.
func (r *followRepo) Follow(dbc dbctx.Context, followerID, followeeID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.UserFollow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepo) Unfollow(dbc dbctx.Context, followerID, followeeID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&types.UserFollow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepo) Counts(dbc dbctx.Context, userID uuid.UUID) (int64, int64, error) {
	t := dbc.DB(r.db)
	var followers, followings int64
	if err := t.Model(&types.UserFollow{}).Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := t.Model(&types.UserFollow{}).Where("follower_id = ?", userID).Count(&followings).Error; err != nil {
		return 0, 0, err
	}
	return followers, followings, nil
}
