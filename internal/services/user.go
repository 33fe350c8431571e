package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/gcp"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserProfile struct {
	*types.User
	Followers  int64 `json:"followers"`
	Followings int64 `json:"followings"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	// Follow and Unfollow are idempotent.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	UpdateProfilePic(ctx context.Context, userID uuid.UUID, raw []byte) (types.Media, error)
}

type userService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	media MediaService
}

func NewUserService(db *gorm.DB, log *logger.Logger, rs repos.Set, media MediaService) UserService {
	return &userService{
		db:    db,
		log:   log.With("service", "UserService"),
		repos: rs,
		media: media,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	u, err := us.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return nil, wrap("get user", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user not found")
	}
	followers, followings, err := us.repos.Follows.Counts(dbc, userID)
	if err != nil {
		return nil, wrap("count follows", err)
	}
	return &UserProfile{User: u, Followers: followers, Followings: followings}, nil
}

func (us *userService) checkPair(dbc dbctx.Context, followerID, followeeID uuid.UUID) error {
	if err := requireID(followerID, "followerId"); err != nil {
		return err
	}
	if err := requireID(followeeID, "userId"); err != nil {
		return err
	}
	if followerID == followeeID {
		return apierr.Invalid("you cannot follow yourself")
	}
	users, err := us.repos.Users.GetByIDs(dbc, []uuid.UUID{followerID, followeeID})
	if err != nil {
		return wrap("get users", err)
	}
	if len(users) != 2 {
		return apierr.NotFound("user not found")
	}
	return nil
}

func (us *userService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	dbc := dbctx.New(ctx)
	if err := us.checkPair(dbc, followerID, followeeID); err != nil {
		return err
	}
	if _, err := us.repos.Follows.Follow(dbc, followerID, followeeID); err != nil {
		return wrap("follow", err)
	}
	return nil
}

func (us *userService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	dbc := dbctx.New(ctx)
	if err := us.checkPair(dbc, followerID, followeeID); err != nil {
		return err
	}
	if _, err := us.repos.Follows.Unfollow(dbc, followerID, followeeID); err != nil {
		return wrap("unfollow", err)
	}
	return nil
}

func (us *userService) UpdateProfilePic(ctx context.Context, userID uuid.UUID, raw []byte) (types.Media, error) {
	if err := requireID(userID, "userId"); err != nil {
		return types.Media{}, err
	}
	if len(raw) == 0 {
		return types.Media{}, apierr.Missing("avatar file is required")
	}
	dbc := dbctx.New(ctx)
	u, err := us.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return types.Media{}, wrap("get user", err)
	}
	if u == nil {
		return types.Media{}, apierr.NotFound("user not found")
	}

	pic, err := us.media.UploadProfilePic(ctx, userID, raw)
	if err != nil {
		return types.Media{}, err
	}
	if err := us.repos.Users.UpdateFields(dbc, userID, map[string]any{
		"profile_pic_url": pic.URL,
		"profile_pic_key": pic.Key,
	}); err != nil {
		us.media.Delete(ctx, gcp.BucketCategoryAvatar, pic)
		return types.Media{}, wrap("store profile pic", err)
	}
	if u.ProfilePic.Key != "" && u.ProfilePic.Key != pic.Key {
		us.media.Delete(ctx, gcp.BucketCategoryAvatar, u.ProfilePic)
	}
	return pic, nil
}
