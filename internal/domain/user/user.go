package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/domain/media"
)

type User struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string      `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Email      string      `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password   string      `gorm:"not null;column:password" json:"-"`
	Verified   bool        `gorm:"not null;default:false;column:verified" json:"verified"`
	Age        int         `gorm:"column:age" json:"age,omitempty"`
	ProfilePic media.Media `gorm:"embedded;embeddedPrefix:profile_pic_" json:"profilePic"`
	LastActive *time.Time  `gorm:"column:last_active" json:"lastActive,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserFollow is one follower -> followee edge.
type UserFollow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey;column:follower_id" json:"followerId"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;index;column:followee_id" json:"followeeId"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (UserFollow) TableName() string { return "user_follow" }
