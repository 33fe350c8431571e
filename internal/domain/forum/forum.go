package forum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/domain/media"
)

type Post struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID                        `gorm:"type:uuid;index;not null;column:author_id" json:"author"`
	Title     string                           `gorm:"not null;column:title" json:"title"`
	Content   string                           `gorm:"type:text;not null;column:content" json:"content"`
	Images    datatypes.JSONSlice[media.Media] `gorm:"column:images" json:"images"`
	Videos    datatypes.JSONSlice[media.Media] `gorm:"column:videos" json:"videos"`
	CreatedAt time.Time                        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time                        `gorm:"not null" json:"updatedAt"`
}

func (Post) TableName() string { return "post" }

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[media.Media]{}
	}
	if p.Videos == nil {
		p.Videos = datatypes.JSONSlice[media.Media]{}
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID                        `gorm:"type:uuid;index;not null;column:post_id" json:"postId"`
	AuthorID  uuid.UUID                        `gorm:"type:uuid;index;not null;column:author_id" json:"author"`
	Content   string                           `gorm:"type:text;not null;column:content" json:"content"`
	Images    datatypes.JSONSlice[media.Media] `gorm:"column:images" json:"images"`
	Videos    datatypes.JSONSlice[media.Media] `gorm:"column:videos" json:"videos"`
	CreatedAt time.Time                        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time                        `gorm:"not null" json:"updatedAt"`
}

func (Comment) TableName() string { return "comment" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Images == nil {
		c.Images = datatypes.JSONSlice[media.Media]{}
	}
	if c.Videos == nil {
		c.Videos = datatypes.JSONSlice[media.Media]{}
	}
	return nil
}
