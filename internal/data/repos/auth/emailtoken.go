package auth

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// EmailTokenRepo keeps at most one pending token per owner. It backs both the
// verification_email and reset_password tables.
type EmailTokenRepo[T any] interface {
	Replace(dbc dbctx.Context, ownerID uuid.UUID, row *T) error
	GetByOwner(dbc dbctx.Context, ownerID uuid.UUID) (*T, error)
	DeleteByOwner(dbc dbctx.Context, ownerID uuid.UUID) error
}

type VerificationEmailRepo = EmailTokenRepo[types.VerificationEmail]
type ResetPasswordRepo = EmailTokenRepo[types.ResetPassword]

type emailTokenRepo[T any] struct {
	db    *gorm.DB
	log   *logger.Logger
	idOf  func(*T) uuid.UUID
}

func NewVerificationEmailRepo(db *gorm.DB, baseLog *logger.Logger) VerificationEmailRepo {
	return &emailTokenRepo[types.VerificationEmail]{
		db:   db,
		log:  baseLog.With("repo", "VerificationEmailRepo"),
		idOf: func(v *types.VerificationEmail) uuid.UUID { return v.ID },
	}
}

func NewResetPasswordRepo(db *gorm.DB, baseLog *logger.Logger) ResetPasswordRepo {
	return &emailTokenRepo[types.ResetPassword]{
		db:   db,
		log:  baseLog.With("repo", "ResetPasswordRepo"),
		idOf: func(v *types.ResetPassword) uuid.UUID { return v.ID },
	}
}

func (r *emailTokenRepo[T]) Replace(dbc dbctx.Context, ownerID uuid.UUID, row *T) error {
	t := dbc.DB(r.db)
	if err := t.Where("owner_id = ?", ownerID).Delete(new(T)).Error; err != nil {
		return err
	}
	return t.Create(row).Error
}

func (r *emailTokenRepo[T]) GetByOwner(dbc dbctx.Context, ownerID uuid.UUID) (*T, error) {
	if ownerID == uuid.Nil {
		return nil, nil
	}
	row := new(T)
	if err := dbc.DB(r.db).Where("owner_id = ?", ownerID).Limit(1).Find(row).Error; err != nil {
		return nil, err
	}
	if r.idOf(row) == uuid.Nil {
		return nil, nil
	}
	return row, nil
}

func (r *emailTokenRepo[T]) DeleteByOwner(dbc dbctx.Context, ownerID uuid.UUID) error {
	return dbc.DB(r.db).Where("owner_id = ?", ownerID).Delete(new(T)).Error
}
