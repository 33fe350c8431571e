package joins

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// LinkRepo exposes the package functions through dbctx for services.
type LinkRepo interface {
	Refs(dbc dbctx.Context, tbl Table, owner uuid.UUID) ([]uuid.UUID, error)
	RefsByOwners(dbc dbctx.Context, tbl Table, owners []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	Owners(dbc dbctx.Context, tbl Table, ref uuid.UUID) ([]uuid.UUID, error)
	Has(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID) (bool, error)
	Count(dbc dbctx.Context, tbl Table, owner uuid.UUID) (int64, error)
	Append(dbc dbctx.Context, tbl Table, owner uuid.UUID, refs ...uuid.UUID) error
	InsertAt(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID, index int) error
	Replace(dbc dbctx.Context, tbl Table, owner uuid.UUID, refs []uuid.UUID) error
	Remove(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID) error
	RemoveRef(dbc dbctx.Context, tbl Table, refs ...uuid.UUID) (int64, error)
	RemoveOwner(dbc dbctx.Context, tbl Table, owners ...uuid.UUID) error
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{db: db, log: baseLog.With("repo", "LinkRepo")}
}

func (r *linkRepo) Refs(dbc dbctx.Context, tbl Table, owner uuid.UUID) ([]uuid.UUID, error) {
	return Refs(dbc.DB(r.db), tbl, owner)
}

func (r *linkRepo) RefsByOwners(dbc dbctx.Context, tbl Table, owners []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return RefsByOwners(dbc.DB(r.db), tbl, owners)
}

func (r *linkRepo) Owners(dbc dbctx.Context, tbl Table, ref uuid.UUID) ([]uuid.UUID, error) {
	return Owners(dbc.DB(r.db), tbl, ref)
}

func (r *linkRepo) Has(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID) (bool, error) {
	return Has(dbc.DB(r.db), tbl, owner, ref)
}

func (r *linkRepo) Count(dbc dbctx.Context, tbl Table, owner uuid.UUID) (int64, error) {
	return Count(dbc.DB(r.db), tbl, owner)
}

func (r *linkRepo) Append(dbc dbctx.Context, tbl Table, owner uuid.UUID, refs ...uuid.UUID) error {
	return Append(dbc.DB(r.db), tbl, owner, refs)
}

func (r *linkRepo) InsertAt(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID, index int) error {
	return InsertAt(dbc.DB(r.db), tbl, owner, ref, index)
}

func (r *linkRepo) Replace(dbc dbctx.Context, tbl Table, owner uuid.UUID, refs []uuid.UUID) error {
	return Replace(dbc.DB(r.db), tbl, owner, refs)
}

func (r *linkRepo) Remove(dbc dbctx.Context, tbl Table, owner, ref uuid.UUID) error {
	return Remove(dbc.DB(r.db), tbl, owner, ref)
}

func (r *linkRepo) RemoveRef(dbc dbctx.Context, tbl Table, refs ...uuid.UUID) (int64, error) {
	return RemoveRef(dbc.DB(r.db), tbl, refs...)
}

func (r *linkRepo) RemoveOwner(dbc dbctx.Context, tbl Table, owners ...uuid.UUID) error {
	return RemoveOwner(dbc.DB(r.db), tbl, owners...)
}
