package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/domain/media"
)

type Category struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string                      `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Tags      datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	CreatedAt time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Category) TableName() string { return "category" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

type Language struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Flag      media.Media `gorm:"embedded;embeddedPrefix:flag_" json:"flag"`
	CreatedAt time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"not null" json:"updatedAt"`
}

func (Language) TableName() string { return "language" }

func (l *Language) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
