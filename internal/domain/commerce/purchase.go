package commerce

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemType string

const (
	ItemTypeCourse ItemType = "Course"
	ItemTypeVip    ItemType = "Vip"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeCourse || t == ItemTypeVip
}

// PurchasedItem is one ledger entry. (user_id, item_type, item_id) is unique.
type PurchasedItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchased_item,priority:1;column:user_id" json:"userId"`
	ItemType  ItemType  `gorm:"not null;uniqueIndex:idx_purchased_item,priority:2;column:item_type" json:"type"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchased_item,priority:3;column:item_id" json:"item"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (PurchasedItem) TableName() string { return "purchased_item" }

func (p *PurchasedItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type VipPlan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Price        float64   `gorm:"not null;default:0;column:price" json:"price"`
	DurationDays int       `gorm:"not null;default:30;column:duration_days" json:"durationDays"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (VipPlan) TableName() string { return "vip_plan" }

func (v *VipPlan) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
