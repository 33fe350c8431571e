package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationEmail holds the hashed one-time code sent to confirm an email address.
type VerificationEmail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:owner_id" json:"ownerId"`
	TokenHash string    `gorm:"not null;column:token_hash" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (VerificationEmail) TableName() string { return "verification_email" }

func (v *VerificationEmail) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ResetPassword holds the hashed password reset token.
type ResetPassword struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:owner_id" json:"ownerId"`
	TokenHash string    `gorm:"not null;column:token_hash" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (ResetPassword) TableName() string { return "reset_password" }

func (r *ResetPassword) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// EmailTokenTTL bounds both verification codes and reset tokens.
const EmailTokenTTL = time.Hour
