package commerce

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type PurchasedItemRepo interface {
	// Insert adds the ledger entry unless (user, type, item) is already
	// present, and reports whether a row was written.
	Insert(dbc dbctx.Context, userID uuid.UUID, itemType types.PurchasedItemType, itemID uuid.UUID) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, itemType types.PurchasedItemType) ([]*types.PurchasedItem, error)
}

type purchasedItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchasedItemRepo(db *gorm.DB, baseLog *logger.Logger) PurchasedItemRepo {
	return &purchasedItemRepo{db: db, log: baseLog.With("repo", "PurchasedItemRepo")}
}

func (r *purchasedItemRepo) Insert(dbc dbctx.Context, userID uuid.UUID, itemType types.PurchasedItemType, itemID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_type"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&types.PurchasedItem{
			UserID:    userID,
			ItemType:  itemType,
			ItemID:    itemID,
			CreatedAt: time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// ListByUser returns every entry when itemType is empty.
func (r *purchasedItemRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, itemType types.PurchasedItemType) ([]*types.PurchasedItem, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	var out []*types.PurchasedItem
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type VipPlanRepo interface {
	Create(dbc dbctx.Context, p *types.VipPlan) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.VipPlan, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.VipPlan, error)
	List(dbc dbctx.Context) ([]*types.VipPlan, error)
}

type vipPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVipPlanRepo(db *gorm.DB, baseLog *logger.Logger) VipPlanRepo {
	return &vipPlanRepo{db: db, log: baseLog.With("repo", "VipPlanRepo")}
}

func (r *vipPlanRepo) Create(dbc dbctx.Context, p *types.VipPlan) error {
	return dbc.DB(r.db).Create(p).Error
}

func (r *vipPlanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.VipPlan, error) {
	var p types.VipPlan
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *vipPlanRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.VipPlan, error) {
	var out []*types.VipPlan
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *vipPlanRepo) List(dbc dbctx.Context) ([]*types.VipPlan, error) {
	var out []*types.VipPlan
	if err := dbc.DB(r.db).Order("price ASC, title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
